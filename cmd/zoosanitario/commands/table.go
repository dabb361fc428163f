package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"github.com/spf13/cobra"
)

type table struct {
	tw *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error { return t.tw.Flush() }

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

type pageFlags struct {
	limit  int64
	offset int64
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&p.limit, "limit", 0, "page size (0 lists everything)")
	cmd.Flags().Int64Var(&p.offset, "offset", 0, "records to skip")
}

func (p *pageFlags) page() repositories.Pagination {
	return repositories.Page{Size: p.limit, Start: p.offset}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
