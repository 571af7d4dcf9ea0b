package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"factoryfloor/internal/database"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or upgrade the montaza tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.InitMontazaSchema(e.stores.Montaza); err != nil {
			return err
		}
		fmt.Println(color.New(color.FgGreen).Sprint("OK"), "montaza schema is up to date")
		return nil
	},
}
