package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/compose-network/fundme-deployer/internal/deploy"
	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/compose-network/fundme-deployer/internal/node"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "fundme-deployer"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "CLI for deploying FundMe and its price feed mocks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Initialize(slog.LevelInfo)

		if err := configs.SetDefaults(viper.GetViper()); err != nil {
			return err
		}

		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			viper.AddConfigPath(execDir)
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")

		// Try to read config file, but don't fail if it doesn't exist
		// Embedded defaults and flags can provide all necessary configuration
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				slog.Debug("no config file found, will rely on flags and defaults")
			} else {
				const errMsg = "error reading config file"
				slog.With("err", err.Error()).Error(errMsg)
				return errors.Join(err, errors.New(errMsg))
			}
		} else {
			slog.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			const errMsg = "unable to decode application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		level, err := logger.ParseLevel(configs.Values.LogLevel)
		if err != nil {
			return err
		}
		logger.Initialize(level)

		secrets, err := configs.LoadSecrets()
		if err != nil {
			return err
		}
		configs.Values.ApplySecrets(secrets)

		slog.With("network", configs.Values.Network).Debug("configuration loaded")

		return nil
	},
}

func main() {
	if err := deploy.DeclarePersistentFlags(rootCmd); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(deploy.CMD)
	rootCmd.AddCommand(deploy.CompileCMD)
	rootCmd.AddCommand(node.CMD)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		panic(err.Error())
	}
}
