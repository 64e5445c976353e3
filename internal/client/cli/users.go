package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iudanet/gophauth/internal/client/api"
	pkgapi "github.com/iudanet/gophauth/pkg/api"
)

func (c *Cli) runUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	fs.SetOutput(c.io)

	var opts api.ListOptions
	fs.IntVar(&opts.Page, "page", 0, "page number, starting at 1")
	fs.IntVar(&opts.Limit, "limit", 0, "page size, at most 100")
	fs.StringVar(&opts.SortBy, "sort", "", "sort field: created_at or email")
	fs.StringVar(&opts.SortOrder, "order", "", "sort order: asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var list *pkgapi.UserList
	err := c.withSession(ctx, func(token string) error {
		var err error
		list, err = c.apiClient.ListUsers(ctx, token, opts)
		return err
	})
	if err != nil {
		return err
	}

	if len(list.Items) == 0 {
		c.io.Println("No users found.")
		return nil
	}

	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "UUID\tEMAIL\tNAME\tCREATED")
	for _, u := range list.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			u.UUID, u.Email, fullName(u), u.CreatedAt.UTC().Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	m := list.Meta
	c.io.Printf("\nPage %d of %d (%d users total)\n", m.Page, m.TotalPages, m.Total)
	if m.HasNext {
		c.io.Printf("Next page: gophauth users -page %d -limit %d\n", m.Page+1, m.Limit)
	}
	return nil
}

func (c *Cli) runUser(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophauth user <uuid>")
	}

	var user *pkgapi.User
	err := c.withSession(ctx, func(token string) error {
		var err error
		user, err = c.apiClient.GetUser(ctx, token, args[0])
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("UUID:       %s\n", user.UUID)
	c.io.Printf("Email:      %s\n", user.Email)
	c.io.Printf("Name:       %s\n", fullName(*user))
	c.io.Printf("Created at: %s\n", user.CreatedAt.UTC().Format(time.RFC3339))
	c.io.Printf("Updated at: %s\n", user.UpdatedAt.UTC().Format(time.RFC3339))
	return nil
}

func fullName(u pkgapi.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
