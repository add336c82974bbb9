package main

import (
	"context"
	"fmt"

	"github.com/hometuition/portal/core/user"
)

// addUser creates a user with any role, admins included.
func (cli *commandLine) addUser(ctx context.Context, name, email, pwd string, role user.Role) error {
	usr, err := cli.usrSvc.Create(ctx, user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "%s %q created (id: %d)\n", usr.Role, usr.Email, usr.ID)
	return nil
}
