package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

func productCmd(a *app) *cobra.Command {
	productRoot := &cobra.Command{
		Use:   "product",
		Short: "Create and update products",
		Long: "Create products from full cards or existing SKUs, update their\n" +
			"attributes, track import tasks and inspect upload limits.\n" +
			"Request bodies are read as JSON from --file (use - for stdin).",
	}

	productRoot.AddCommand(
		productImportCmd(a),
		productImportInfoCmd(a),
		productImportBySKUCmd(a),
		productUpdateAttributesCmd(a),
		productListCmd(a),
		productQuotaCmd(a),
	)

	return productRoot
}

func productImportCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create or update up to 100 products",
		Example: `  ozonctl product import --file products.json
  cat products.json | ozonctl product import --file -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req ozon.ProductImportRequest
			if err := readJSONFile(file, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.ImportProducts(cmd.Context(), req.Items)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}

	addFileFlag(cmd, &file)
	return cmd
}

func productImportInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "import-info <task-id>",
		Short:   "Show the status of a product import task",
		Example: `  ozonctl product import-info 172549793`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.ImportInfo(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}
}

func productImportBySKUCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "import-by-sku",
		Short:   "Create products from existing Ozon SKUs",
		Example: `  ozonctl product import-by-sku --file skus.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req ozon.ImportBySKURequest
			if err := readJSONFile(file, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.ImportBySKU(cmd.Context(), req.Items)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}

	addFileFlag(cmd, &file)
	return cmd
}

func productUpdateAttributesCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "update-attributes",
		Short:   "Update product attributes by offer id",
		Example: `  ozonctl product update-attributes --file attributes.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req ozon.AttributesUpdateRequest
			if err := readJSONFile(file, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.UpdateAttributes(cmd.Context(), req.Items)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}

	addFileFlag(cmd, &file)
	return cmd
}

func productListCmd(a *app) *cobra.Command {
	var (
		file       string
		limit      int
		lastID     string
		offerIDs   []string
		visibility string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the seller's products",
		Long: "Lists products page by page. Use --last-id with the value printed\n" +
			"by the previous call to fetch the next page, or pass a full request\n" +
			"body with --file.",
		Example: `  ozonctl product list --limit 50
  ozonctl product list --offer-id KT-7 --offer-id KT-8 --output json
  ozonctl product list --file filter.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := ozon.Document{}
			if file != "" {
				if err := readJSONFile(file, cmd.InOrStdin(), &body); err != nil {
					return err
				}
			} else {
				filter := ozon.Document{"visibility": visibility}
				if len(offerIDs) > 0 {
					filter["offer_id"] = offerIDs
				}
				body["filter"] = filter
				body["last_id"] = lastID
				body["limit"] = limit
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.ListProducts(cmd.Context(), body)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printProductsTable)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON request body (- for stdin); overrides the filter flags")
	cmd.Flags().IntVar(&limit, "limit", 100, "products per page (max 1000)")
	cmd.Flags().StringVar(&lastID, "last-id", "", "cursor from the previous page")
	cmd.Flags().StringSliceVar(&offerIDs, "offer-id", nil, "filter by offer id (repeatable)")
	cmd.Flags().StringVar(&visibility, "visibility", "ALL", "visibility filter (ALL, VISIBLE, INVISIBLE, ARCHIVED, ...)")
	return cmd
}

func productQuotaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "quota",
		Short:   "Show product creation and update limits",
		Example: `  ozonctl product quota --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.UploadQuota(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, printDocument)
		},
	}
}

func addFileFlag(cmd *cobra.Command, file *string) {
	cmd.Flags().StringVarP(file, "file", "f", "", "JSON request body (- for stdin)")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))
}
