package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// confirmDeletion asks before deleting one or more resources of a kind.
// Anything but "y" or "yes" cancels; EOF counts as no.
func confirmDeletion(cmd *cobra.Command, kind string, ids ...string) bool {
	out := cmd.ErrOrStderr()
	if len(ids) == 1 {
		fmt.Fprintf(out, "Delete %s '%s'? (y/N): ", kind, ids[0])
	} else {
		fmt.Fprintf(out, "Delete %d %ss (%s)? (y/N): ", len(ids), kind, strings.Join(ids, ", "))
	}

	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		fmt.Fprintf(out, "Failed to read input: %v\n", err)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	default:
		fmt.Fprintln(out, "Cancelled")
		return false
	}
}
