package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"bookbinder/internal/deps"
	"bookbinder/internal/preflight"
	"bookbinder/internal/transcoder"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe, and the configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := newStatusPrinter(cmd.OutOrStdout())

			report.section("Dependencies")
			statuses := preflight.CheckSystemDeps(cfg)
			report.dependencies(statuses)
			missing := deps.Missing(statuses)
			if len(missing) == 0 {
				injector, err := ctx.container(cmd)
				if err != nil {
					return err
				}
				encoder := do.MustInvoke[*transcoder.Gateway](injector).DetectBestEncoder(cmd.Context())
				kind := statusOK
				if encoder == transcoder.EncoderNative {
					kind = statusInfo
				}
				report.field("AAC encoder", kind, encoder)
			}

			report.blank()
			report.section("Directories")
			dirResults := preflight.RunAll(cfg)
			report.directories(dirResults)

			report.blank()
			report.section("Configuration")
			configDetail := ctx.configPath
			if !ctx.configSeen {
				configDetail += " (not found, using defaults)"
			}
			report.field("Config file", statusInfo, configDetail)
			report.field("Telegram mode", statusInfo, yesNo(cfg.Conversion.TelegramMode))
			report.field("History", statusInfo, yesNo(cfg.History.Enabled))

			failed := len(missing) + len(preflight.Failed(dirResults))
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
