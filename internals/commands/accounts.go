package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	database "library_backend/internals/databases"
	authHelper "library_backend/internals/features/users/auth/helper"
	authRepo "library_backend/internals/features/users/auth/repository"
	authService "library_backend/internals/features/users/auth/service"
	"library_backend/internals/helpers/errs"
)

func newCreateStaffCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "createstaff",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if username == "" {
				if username, err = prompt("Username: "); err != nil {
					return err
				}
			}
			password, err := promptNewPassword()
			if err != nil {
				return err
			}

			user, err := authService.NewAuthService(db).Register(context.Background(), authService.RegisterInput{
				UserName:  username,
				Email:     email,
				Password1: password,
				Password2: password,
				Staff:     true,
			})
			if err != nil {
				return describe(err)
			}
			ok("staff account %q created (id %d)", user.UserName, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&email, "email", "", "Account email (optional)")
	return cmd
}

func newChangePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changepassword <username>",
		Short: "Set a new password for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			user, err := authRepo.FindUserByUsername(db, args[0])
			if err != nil {
				return fmt.Errorf("user %q not found", args[0])
			}
			password, err := promptNewPassword()
			if err != nil {
				return err
			}
			if verr := authHelper.ValidateRegisterInput(user.UserName, password, password); verr.OrNil() != nil {
				return describe(verr)
			}
			if err := authService.NewAuthService(db).SetPassword(context.Background(), user.ID, password); err != nil {
				return err
			}
			ok("password changed for %q", user.UserName)
			return nil
		},
	}
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptNewPassword reads a password twice without echo.
func promptNewPassword() (string, error) {
	first, err := readPassword("Password: ")
	if err != nil {
		return "", err
	}
	second, err := readPassword("Password (again): ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords didn't match")
	}
	return first, nil
}

func readPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// describe flattens field errors into one CLI message.
func describe(err error) error {
	ve, isValidation := errs.AsValidation(err)
	if !isValidation {
		return err
	}
	msgs := make([]string, 0, len(ve.Fields))
	for _, list := range ve.Fields {
		msgs = append(msgs, list...)
	}
	return errors.New(strings.Join(msgs, " "))
}
