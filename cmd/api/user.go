package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"factoryfloor/internal/database"
	"factoryfloor/internal/domain"
	"factoryfloor/internal/modules/admin"
	"factoryfloor/internal/repository"
)

var userRole string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(func(svc *admin.Service) error {
			u, err := svc.CreateUser(cmd.Context(), cliActor, admin.CreateUserRequest{
				Username: args[0],
				Password: args[1],
				Role:     userRole,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s created %s (%s)\n", color.New(color.FgGreen).Sprint("OK"), u.Username, u.Role)
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(func(svc *admin.Service) error {
			users, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
			}
			return tw.Flush()
		})
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		return withAdmin(func(svc *admin.Service) error {
			if err := svc.DeleteUser(cmd.Context(), cliActor, id); err != nil {
				return err
			}
			fmt.Printf("%s deleted user %d\n", color.New(color.FgGreen).Sprint("OK"), id)
			return nil
		})
	},
}

// cliActor never matches a real account, so the console may delete anyone.
var cliActor = domain.Actor{Username: "", Role: domain.RoleAdmin}

func init() {
	userAddCmd.Flags().StringVarP(&userRole, "role", "r", string(domain.RoleViewer), "account role (admin or viewer)")
	userCmd.AddCommand(userAddCmd, userListCmd, userDeleteCmd)
}

func withAdmin(fn func(*admin.Service) error) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()
	if err := database.InitMontazaSchema(e.stores.Montaza); err != nil {
		return err
	}
	return fn(admin.NewService(repository.NewUserRepository(e.stores.Montaza), e.log))
}
