package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/hometuition/portal/core/user"
)

// listUsers prints every user, or only the one matching id when it is set.
func (cli *commandLine) listUsers(ctx context.Context, id int) error {
	var users []user.User
	if id != 0 {
		usr, err := cli.usrSvc.GetByID(ctx, id)
		if err != nil {
			return err
		}
		users = append(users, usr)
	} else {
		var err error
		if users, err = cli.usrSvc.QueryAll(ctx); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tCREATED")
	for _, usr := range users {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", usr.ID, usr.Email, usr.Name, usr.Role, usr.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
