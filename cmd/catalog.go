package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"entity-kit/core/database"
	"entity-kit/core/entity"
	"entity-kit/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the author/book/shelf catalog",
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog tables and verify the live schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		if err := a.repo.Migrate(cmd.Context()); err != nil {
			return err
		}
		return verifySchema(cmd, a)
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the catalog models with the live schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		return verifySchema(cmd, a)
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Insert shelves, authors and books from a YAML or JSON fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open fixture: %w", err)
		}
		defer f.Close()

		fx, err := catalog.ReadFixture(f)
		if err != nil {
			return err
		}

		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		if err := a.repo.Migrate(cmd.Context()); err != nil {
			return err
		}
		res, err := a.service.Seed(cmd.Context(), fx)
		if err != nil {
			return err
		}
		return printEntity(cmd, res)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <author-id>",
	Short: "Print an author with its books",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		fields, _ := cmd.Flags().GetStringSlice("fields")

		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		out, err := a.service.Render(cmd.Context(), id, format, fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Body)
		return nil
	},
}

var catalogLinkCmd = &cobra.Command{
	Use:   "link <author-id> [book-id...]",
	Short: "Replace the books of an author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		refs := make([]any, 0, len(args)-1)
		for _, raw := range args[1:] {
			refs = append(refs, raw)
		}

		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		author, err := a.service.LinkBooks(cmd.Context(), id, refs)
		if err != nil {
			return err
		}
		return printEntity(cmd, author)
	},
}

var catalogShelveCmd = &cobra.Command{
	Use:   "shelve <shelf-id> [book-id...]",
	Short: "Replace the books on a shelf",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uint, 0, len(args))
		for _, raw := range args {
			id, err := parseID(raw)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		shelf, err := a.service.ShelveBooks(cmd.Context(), ids[0], ids[1:])
		if err != nil {
			return err
		}
		return printEntity(cmd, shelf)
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload every author to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		keys, err := a.service.Export(cmd.Context(), format)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

func verifySchema(cmd *cobra.Command, a *app) error {
	mismatches, err := database.VerifyModels(a.repo.DB(), catalog.Models()...)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		a.log.Info("Catalog schema matches the models")
		return nil
	}
	for _, m := range mismatches {
		a.log.Warn("Schema mismatch", zap.String("detail", m.String()))
	}
	return fmt.Errorf("catalog schema has %d mismatches", len(mismatches))
}

// printEntity writes v in the --format of the command (the configured default when empty).
func printEntity(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("format")
	enc, err := entity.EncoderFor(format)
	if err != nil {
		return err
	}
	out, err := entity.Serialize(v, enc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func init() {
	catalogCmd.PersistentFlags().String("format", "", "Output format (json, yaml)")
	catalogShowCmd.Flags().StringSlice("fields", nil, "Restrict output to these (dotted) fields")

	catalogCmd.AddCommand(catalogMigrateCmd, catalogCheckCmd, catalogSeedCmd, catalogShowCmd,
		catalogLinkCmd, catalogShelveCmd, catalogExportCmd)
	RootCmd.AddCommand(catalogCmd)
}
