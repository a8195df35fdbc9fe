package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage brands, chains and stores",
	}
	cmd.AddCommand(newCatalogListCmd(), newCatalogAddCmd(), newCatalogRemoveCmd())
	return cmd
}

func parseKind(s string) (catalog.Kind, error) {
	k := catalog.Kind(strings.ToLower(s))
	if !k.IsValid() {
		// accept the singular form too
		k = catalog.Kind(strings.ToLower(s) + "s")
	}
	if !k.IsValid() {
		return "", fmt.Errorf("unknown catalog kind %q (valid: brands, chains, stores)", s)
	}
	return k, nil
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <brands|chains|stores>",
		Short: "List catalog entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return runCatalogList(kind)
		},
	}
}

func runCatalogList(kind catalog.Kind) error {
	c := newAPIClient()

	var (
		header []string
		rows   [][]string
	)
	switch kind {
	case catalog.KindBrand:
		var brands []catalog.Brand
		if err := c.ListCatalog(kind, &brands); err != nil {
			return err
		}
		if isJSON() {
			return printJSON(brands)
		}
		header = []string{"ID", "NAME", "CATEGORY"}
		for _, b := range brands {
			rows = append(rows, []string{strconv.FormatInt(b.ID, 10), b.Name, b.Category})
		}
	case catalog.KindChain:
		var chains []catalog.Chain
		if err := c.ListCatalog(kind, &chains); err != nil {
			return err
		}
		if isJSON() {
			return printJSON(chains)
		}
		header = []string{"ID", "NAME", "STORES", "REGIONS"}
		for _, ch := range chains {
			rows = append(rows, []string{
				strconv.FormatInt(ch.ID, 10), ch.Name, strconv.Itoa(ch.StoreCount), strings.Join(ch.Regions, ", "),
			})
		}
	default:
		var stores []catalog.Store
		if err := c.ListCatalog(kind, &stores); err != nil {
			return err
		}
		if isJSON() {
			return printJSON(stores)
		}
		header = []string{"ID", "NAME", "CHAIN", "ADDRESS"}
		for _, s := range stores {
			rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name, s.Chain, truncate(s.FullAddress(), 50)})
		}
	}

	if len(rows) == 0 {
		fmt.Printf("No %s found.\n", kind)
		return nil
	}
	return writeTable(os.Stdout, header, rows)
}

func newCatalogAddCmd() *cobra.Command {
	var (
		category, chain, address, city string
		storeCount                     int
		regions                        []string
	)

	cmd := &cobra.Command{
		Use:   "add <brand|chain|store> <name>",
		Short: "Add a catalog entry",
		Long: `Add a brand, chain or store to the catalog.

Examples:
  fv catalog add brand Oreo --category Galletas
  fv catalog add chain Carrefour --stores 205 --region Madrid --region Cataluña
  fv catalog add store "Día Malasaña" --chain Día --address "Calle Fuencarral 45" --city Madrid`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")

			var entry, result any
			switch kind {
			case catalog.KindBrand:
				entry, result = catalog.Brand{Name: name, Category: category}, &catalog.Brand{}
			case catalog.KindChain:
				entry, result = catalog.Chain{Name: name, StoreCount: storeCount, Regions: regions}, &catalog.Chain{}
			default:
				entry, result = catalog.Store{Name: name, Chain: chain, Address: address, City: city}, &catalog.Store{}
			}

			if err := newAPIClient().AddCatalog(kind, entry, result); err != nil {
				return fmt.Errorf("adding %s: %w", args[0], err)
			}
			if isJSON() {
				return printJSON(result)
			}
			fmt.Printf("Added %s %q.\n", strings.TrimSuffix(string(kind), "s"), name)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "brand category")
	cmd.Flags().IntVar(&storeCount, "stores", 0, "chain store count")
	cmd.Flags().StringArrayVar(&regions, "region", nil, "chain region (repeatable)")
	cmd.Flags().StringVar(&chain, "chain", "", "store chain")
	cmd.Flags().StringVar(&address, "address", "", "store street address")
	cmd.Flags().StringVar(&city, "city", "", "store city")

	return cmd
}

func newCatalogRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <brands|chains|stores> <id>",
		Short: "Remove a catalog entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ID: %s", args[1])
			}
			if err := newAPIClient().DeleteCatalog(kind, id); err != nil {
				return err
			}
			if isJSON() {
				return printJSON(map[string]any{"id": id, "removed": true})
			}
			fmt.Printf("Removed %s #%d.\n", strings.TrimSuffix(string(kind), "s"), id)
			return nil
		},
	}
}
