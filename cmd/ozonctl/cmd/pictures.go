package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

func picturesCmd(a *app) *cobra.Command {
	picturesRoot := &cobra.Command{
		Use:   "pictures",
		Short: "Upload product pictures and check their status",
	}

	picturesRoot.AddCommand(
		picturesImportCmd(a),
		picturesInfoCmd(a),
	)

	return picturesRoot
}

func picturesImportCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upload or replace product pictures",
		Example: `  ozonctl pictures import --file pictures.json
  echo '{"product_id":1,"images":["https://cdn.example.com/1.jpg"]}' | ozonctl pictures import -f -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body ozon.Document
			if err := readJSONFile(file, cmd.InOrStdin(), &body); err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.ImportPictures(cmd.Context(), body)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}

	addFileFlag(cmd, &file)
	return cmd
}

func picturesInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "info <product-id>...",
		Short:   "Show the upload status of product pictures",
		Example: `  ozonctl pictures info 123456 123457`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.PicturesInfo(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}
}
