package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/storefront-dev/storefront/internal/cli/client"
)

// NewAddressesCmd creates the addresses command group
func NewAddressesCmd(e *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address", "addr"},
		Short:   "Manage saved shipping addresses",
	}

	cmd.AddCommand(newAddressesListCmd(e))
	cmd.AddCommand(newAddressesAddCmd(e))

	return cmd
}

func newAddressesListCmd(e *Env) *cobra.Command {
	var serverAlias, output string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddressesList(cmd.Context(), e, serverAlias, output)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses the selected server if not specified)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runAddressesList(ctx context.Context, e *Env, serverAlias, output string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	api, _, err := e.authedClient(server)
	if err != nil {
		return err
	}

	addresses, err := api.UserAddresses(ctx)
	if err != nil {
		return err
	}

	switch output {
	case "json":
		enc := json.NewEncoder(e.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(addresses)
	case "yaml":
		enc := yaml.NewEncoder(e.Out)
		defer enc.Close()
		return enc.Encode(addresses)
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", output)
	}

	if len(addresses) == 0 {
		e.println("No addresses found.")
		e.println("\nAdd one with: storefront addresses add --full-name ... --line1 ...")
		return nil
	}

	w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tCITY\tCOUNTRY\tDEFAULT")
	fmt.Fprintln(w, "──\t────\t───────\t────\t───────\t───────")

	for _, a := range addresses {
		def := ""
		if a.IsDefault {
			def = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.FullName,
			a.AddressLine1,
			a.City,
			a.Country,
			def,
		)
	}

	return w.Flush()
}

func newAddressesAddCmd(e *Env) *cobra.Command {
	var serverAlias string
	var input client.AddressInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddressesAdd(cmd.Context(), e, serverAlias, input)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses the selected server if not specified)")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "Recipient name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&input.AddressLine1, "line1", "", "Address line 1")
	cmd.Flags().StringVar(&input.AddressLine2, "line2", "", "Address line 2")
	cmd.Flags().StringVar(&input.City, "city", "", "City")
	cmd.Flags().StringVar(&input.State, "state", "", "State or province")
	cmd.Flags().StringVar(&input.Country, "country", "", "Country")
	cmd.Flags().StringVar(&input.PostalCode, "postal-code", "", "Postal code")
	cmd.Flags().BoolVar(&input.IsDefault, "default", false, "Make this the default address")
	for _, name := range []string{"full-name", "line1", "city", "country", "postal-code"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runAddressesAdd(ctx context.Context, e *Env, serverAlias string, input client.AddressInput) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	api, store, err := e.authedClient(server)
	if err != nil {
		return err
	}

	state, err := store.State()
	if err != nil {
		return err
	}
	if state.Profile.UserID == "" {
		return fmt.Errorf("no user profile stored for %s. Please run 'storefront login' again", server.Alias)
	}

	addr, err := api.CreateAddress(ctx, state.Profile.UserID, input)
	if err != nil {
		return err
	}

	e.printf("✓ Address saved (%s)\n", addr.ID)
	e.printf("  %s, %s, %s %s, %s\n", addr.FullName, addr.AddressLine1, addr.City, addr.PostalCode, addr.Country)

	return nil
}
