package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

func categoryCmd(a *app) *cobra.Command {
	categoryRoot := &cobra.Command{
		Use:   "category",
		Short: "Browse description categories and their attributes",
		Long: "Browse the description category tree, list category attributes\n" +
			"and fetch the allowed values of dictionary attributes. Category\n" +
			"and type ids come from --category-id and --type-id or the config.",
	}

	categoryRoot.AddCommand(
		categoryTreeCmd(a),
		categoryAttributesCmd(a),
		categoryValuesCmd(a),
		categorySearchCmd(a),
		categoryFullCmd(a),
	)

	return categoryRoot
}

func categoryTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the description category tree",
		Example: `  ozonctl category tree
  ozonctl category tree --language EN --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.CategoryTree(cmd.Context(), s.client.RequestContext())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, func(w io.Writer, d ozon.Document) error {
				nodes, ok := d.Result().([]any)
				if !ok {
					return printDocument(w, d)
				}
				return printCategoryTree(w, nodes)
			})
		},
	}
}

func categoryAttributesCmd(a *app) *cobra.Command {
	var requiredOnly bool

	cmd := &cobra.Command{
		Use:   "attributes",
		Short: "List the attributes of a category and type",
		Example: `  ozonctl category attributes --category-id 17028922 --type-id 91565
  ozonctl category attributes --category-id 17028922 --type-id 91565 --required`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			attrs, err := s.client.AttributeList(cmd.Context(), s.client.RequestContext())
			if err != nil {
				return err
			}
			if requiredOnly {
				attrs = lo.Filter(attrs, func(at ozon.Attribute, _ int) bool {
					return at.IsRequired
				})
			}
			if a.jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), attrs)
			}
			if len(attrs) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No attributes found.")
				return err
			}
			return printAttributesTable(cmd.OutOrStdout(), attrs)
		},
	}

	cmd.Flags().BoolVar(&requiredOnly, "required", false, "only show required attributes")
	return cmd
}

func categoryValuesCmd(a *app) *cobra.Command {
	var startCursor int64

	cmd := &cobra.Command{
		Use:   "values <attribute-id>",
		Short: "Fetch every allowed value of a dictionary attribute",
		Example: `  ozonctl category values 85 --category-id 17028922 --type-id 91565
  ozonctl category values 85 --category-id 17028922 --type-id 91565 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attributeID, err := parseID("attribute id", args[0])
			if err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}

			opts := append(s.valuesOptions(), ozon.WithStartCursor(startCursor))
			values, err := s.client.AttributeValues(
				cmd.Context(),
				s.client.RequestContext(),
				attributeID,
				opts...,
			)
			if len(values) > 0 || err == nil {
				if perr := a.printValues(cmd.OutOrStdout(), values); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.Flags().Int64Var(&startCursor, "start-after", 0, "resume after this value id")
	return cmd
}

func categorySearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <attribute-id> <text>",
		Short: "Search the allowed values of an attribute",
		Example: `  ozonctl category search 85 "Acme" --category-id 17028922 --type-id 91565
  ozonctl category search 85 "Acme" --limit 10 --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attributeID, err := parseID("attribute id", args[0])
			if err != nil {
				return err
			}
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			doc, err := s.client.SearchAttributeValues(
				cmd.Context(),
				s.client.RequestContext(),
				attributeID,
				args[1],
				limit,
			)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), doc, func(w io.Writer, d ozon.Document) error {
				items, ok := d.Result().([]any)
				if !ok {
					return printDocument(w, d)
				}
				values := lo.FilterMap(items, func(v any, i int) (ozon.AttributeValue, bool) {
					m, ok := asObject(v, i)
					return ozon.AttributeValue(m), ok
				})
				return printValuesTable(w, values)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of values to return")
	return cmd
}

func categoryFullCmd(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "full",
		Short: "Dump every attribute of a category with all allowed values",
		Long: "Lists the attributes of the category and type, then fetches the\n" +
			"allowed values of each one. Attributes whose values could not be\n" +
			"fetched in full are reported on stderr and the command exits non-zero.",
		Example: `  ozonctl category full --category-id 17028922 --type-id 91565 --output json
  ozonctl category full --category-id 17028922 --type-id 91565 --concurrency 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = s.cfg.Pagination.Concurrency
			}

			info, err := s.client.FullCategoryInfo(cmd.Context(), s.client.RequestContext(),
				ozon.WithConcurrency(concurrency),
				ozon.WithValuesOptions(s.valuesOptions()...),
			)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				err = outputJSON(cmd.OutOrStdout(), info)
			} else {
				err = printCategoryInfo(cmd.OutOrStdout(), info)
			}
			if err != nil {
				return err
			}

			if info.Complete() {
				return nil
			}
			for _, f := range info.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "attribute %d (%s): %v\n", f.AttributeID, f.Name, f.Err)
			}
			return fmt.Errorf("%d of %d attributes incomplete", len(info.Failures), len(info.Fields))
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "attributes fetched in parallel")
	return cmd
}

func (a *app) printValues(w io.Writer, values []ozon.AttributeValue) error {
	if a.jsonOutput() {
		return outputJSON(w, values)
	}
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "No values found.")
		return err
	}
	return printValuesTable(w, values)
}

func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}
