package main

import (
	"context"
	"fmt"

	"github.com/hometuition/portal/core/user"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	if err := cli.usrSvc.ResetPassword(ctx, user.ResetUserPassword{Email: email, Password: pwd}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "password of %q reset\n", email)
	return nil
}
