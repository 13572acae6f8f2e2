package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"longbox/internal/config"
	"longbox/internal/convstore"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and correct the conversion cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheEditCommand(ctx))
	cacheCmd.AddCommand(newCacheDeleteCommand(ctx))
	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <namespace> <kind>",
		Short: "List cached conversions for a resource kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *convstore.Store) error {
				namespace, kind, err := parseCacheTarget(store, args[0], args[1])
				if err != nil {
					return err
				}
				records, err := namespace.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No cached %s conversions in the %s namespace\n", kind, args[0])
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.Kind.String(),
						strconv.FormatInt(rec.SourceID, 10),
						strconv.FormatInt(rec.DestinationID, 10),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Kind", "Source ID", "Destination ID"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newCacheEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <namespace> <kind> <source-id> <destination-id>",
		Short: "Correct the destination id for a cached conversion",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *convstore.Store) error {
				namespace, kind, err := parseCacheTarget(store, args[0], args[1])
				if err != nil {
					return err
				}
				sourceID, destID, err := parseIDPair(args[2], args[3])
				if err != nil {
					return err
				}
				if _, present, err := namespace.Get(cmd.Context(), kind, sourceID); err != nil {
					return err
				} else if !present {
					return fmt.Errorf("no cached %s conversion for source id %d", kind, sourceID)
				}
				if err := namespace.Edit(cmd.Context(), kind, sourceID, destID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d -> %d\n", kind, sourceID, destID)
				return nil
			})
		},
	}
}

func newCacheDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <namespace> <kind> <source-id>",
		Short: "Remove a cached conversion",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *convstore.Store) error {
				namespace, kind, err := parseCacheTarget(store, args[0], args[1])
				if err != nil {
					return err
				}
				sourceID, err := strconv.ParseInt(args[2], 10, 64)
				if err != nil {
					return fmt.Errorf("source id %q is not a number", args[2])
				}
				removed, err := namespace.Delete(cmd.Context(), kind, sourceID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("failed to remove %s conversion for source id %d", kind, sourceID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s conversion for source id %d\n", kind, sourceID)
				return nil
			})
		},
	}
}

func parseCacheTarget(store *convstore.Store, namespaceName, kindName string) (*convstore.Namespace, convstore.Kind, error) {
	var namespace *convstore.Namespace
	switch namespaceName {
	case "source":
		namespace = store.Source()
	case "gcd":
		namespace = store.Grassroots()
	default:
		return nil, 0, fmt.Errorf("unknown namespace %q (want source or gcd)", namespaceName)
	}
	kind, err := convstore.ParseKind(kindName)
	if err != nil {
		return nil, 0, err
	}
	return namespace, kind, nil
}

func parseIDPair(sourceArg, destArg string) (int64, int64, error) {
	sourceID, err := strconv.ParseInt(sourceArg, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("source id %q is not a number", sourceArg)
	}
	destID, err := strconv.ParseInt(destArg, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("destination id %q is not a number", destArg)
	}
	return sourceID, destID, nil
}
