package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometuition/portal/core/user"
	inmemdb "github.com/hometuition/portal/storage/database/inmem"
	testutil "github.com/hometuition/portal/tests"
)

const pwd = "Tuition#2024"

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()
	validate, _ := testutil.NewValidator()
	usrRepo = inmemdb.NewUserRepository(inmemdb.NewDB())

	return &commandLine{
		usrSvc: user.NewService(usrRepo, validate),
		out:    new(bytes.Buffer),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"adduser", "-username", "lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, cli.run(args))
		})
	}
	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "Usage:")
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var ran []string
	migrateFunc = func(_ context.Context, _ *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}
	assert.Equal(t, []string{"up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version"}, ran)
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	testutil.CreateUser(t, usrRepo, "Existing", "taken@mail.com", pwd, user.RoleParent)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"adduser", "-email", "admin@mail.com"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "admin@mail.com", "-name", "Admin"}, wantErr: errHelp},
		{name: "invalid role", args: []string{"adduser", "-email", "admin@mail.com", "-name", "Admin", "-role", "student"}, extra: extra{pwd: pwd}, wantErr: user.ErrInvalidRole},
		{name: "duplicate email", args: []string{"adduser", "-email", "taken@mail.com", "-name", "Admin"}, extra: extra{pwd: pwd}, wantErrStr: user.ErrEmailExists.Error()},
		{name: "admin", args: []string{"adduser", "-email", "admin@mail.com", "-name", "Admin"}, extra: extra{pwd: pwd}},
		{name: "teacher", args: []string{"adduser", "-email", "ravi@mail.com", "-name", "Ravi Kumar", "-role", "teacher"}, extra: extra{pwd: pwd}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}

	admin, err := usrRepo.GetUserByEmail(context.Background(), "admin@mail.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.True(t, user.VerifyPassword(admin.PasswordHash, pwd))

	teacher, err := usrRepo.GetUserByEmail(context.Background(), "ravi@mail.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, teacher.Role)
}

func Test_commandLine_addUser_weakPassword(t *testing.T) {
	cli := setup(t)
	tt := cliTest{extra: extra{pwd: "short"}}
	mockPassword(tt)

	err := cli.run([]string{"admin", "adduser", "-email", "admin@mail.com", "-name", "Admin"})
	var vErrs validator.ValidationErrors
	require.True(t, errors.As(err, &vErrs), "%v", err)
	assert.Equal(t, "password", vErrs[0].Field())
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Asha Rao", "asha@mail.com", pwd, user.RoleParent)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@mail.com"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@mail.com"}, extra: extra{pwd: "Another#Pwd1"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "Another#Pwd1"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				require.NoError(t, err)
				assert.False(t, bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash), "failed to update new password")
				assert.True(t, user.VerifyPassword(refreshedUsr.PasswordHash, "Another#Pwd1"))
			} else {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			}
		})
	}
}

func Test_commandLine_listUsers(t *testing.T) {
	cli := setup(t)
	asha := testutil.CreateUser(t, usrRepo, "Asha Rao", "asha@mail.com", pwd, user.RoleParent)
	testutil.CreateUser(t, usrRepo, "Ravi Kumar", "ravi@mail.com", pwd, user.RoleTeacher)

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		want     []string
		wantNone []string
	}{
		{name: "unknown flag", args: []string{"listusers", "-email", "asha@mail.com"}, wantErr: errHelp},
		{name: "all", args: []string{"listusers"}, want: []string{"ID", "asha@mail.com", "ravi@mail.com", "teacher"}},
		{name: "by id", args: []string{"listusers", "-id", strconv.Itoa(asha.ID)}, want: []string{"asha@mail.com", "Asha Rao", "parent"}, wantNone: []string{"ravi@mail.com"}},
		{name: "unknown id", args: []string{"listusers", "-id", "999"}, wantErr: user.ErrNotFound},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out := cli.out.(*bytes.Buffer)
			out.Reset()

			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.wantNone {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}
