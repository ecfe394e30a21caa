package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	optimism "github.com/hoanguyenkh/optimism"
	"github.com/hoanguyenkh/optimism/bytecode"
	"github.com/hoanguyenkh/optimism/config"
	"github.com/hoanguyenkh/optimism/genesis"
	"github.com/hoanguyenkh/optimism/log"
	"github.com/hoanguyenkh/optimism/state"
)

const appName = "l2genesis"

var (
	deployConfigFlag = cli.StringFlag{
		Name:     config.FlagDeployConfig,
		Aliases:  []string{"c"},
		Usage:    "Deploy configuration `FILE`",
		Required: true,
	}
	l1DeploymentsFlag = cli.StringFlag{
		Name:     config.FlagL1Deployments,
		Aliases:  []string{"l1"},
		Usage:    "Layer-1 deployments registry `FILE`",
		Required: true,
	}
	artifactsFlag = cli.StringFlag{
		Name:     config.FlagArtifacts,
		Aliases:  []string{"a"},
		Usage:    "Compiled contract artifacts `DIR`",
		Required: true,
	}
	outputFlag = cli.StringFlag{
		Name:     config.FlagOutput,
		Aliases:  []string{"o"},
		Usage:    "Genesis state output `FILE`",
		Required: true,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = optimism.Version
	app.Commands = []*cli.Command{
		{
			Name:   "version",
			Usage:  "Application version and build",
			Action: versionCmd,
		},
		{
			Name:   "build",
			Usage:  "Build the layer-2 genesis state file",
			Action: build,
			Flags: []cli.Flag{
				&deployConfigFlag,
				&l1DeploymentsFlag,
				&artifactsFlag,
				&outputFlag,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}

func versionCmd(ctx *cli.Context) error {
	fmt.Printf("%s %s\n", appName, optimism.Version)
	return nil
}

func build(ctx *cli.Context) error {
	log.Init(log.Config{
		Environment: log.EnvironmentDevelopment,
		Level:       "info",
		Outputs:     []string{"stderr"},
	})

	cfg, err := config.LoadDeployConfig(ctx.String(config.FlagDeployConfig))
	if err != nil {
		return err
	}
	deployments, err := config.LoadDeployments(ctx.String(config.FlagL1Deployments))
	if err != nil {
		return err
	}
	provider := bytecode.NewArtifactsDir(ctx.String(config.FlagArtifacts))

	builder := genesis.NewBuilder(cfg, deployments, provider)
	db, err := builder.Build()
	if err != nil {
		return err
	}

	dump := db.Dump()
	output := ctx.String(config.FlagOutput)
	if err := state.WriteDump(output, dump); err != nil {
		return err
	}
	log.Infof("Genesis state with %d accounts written to %s", len(dump.Accounts), output)
	return nil
}
