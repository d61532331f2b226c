package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codescout/codescout/internal/config"
	"github.com/codescout/codescout/internal/types"
)

const (
	configUse              = types.CommandConfig
	configShortDescription = "manage codescout configuration"

	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"
	configInitLongDescription  = `Write a commented default configuration file. Without flags the file is
created in the working directory; --global writes it under the home
directory instead.`
)

// createConfigCommand returns the config subcommand group.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(createConfigInitCommand())
	return configCommand
}

// createConfigInitCommand returns the config init subcommand.
func createConfigInitCommand() *cobra.Command {
	var globalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: forceOverwrite})
			if initError != nil {
				return initError
			}
			fmt.Printf(configInitSuccessTemplate, writtenPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&globalTarget, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}
