package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calehh/signedvoting/agent"
	"github.com/calehh/signedvoting/app"
	app_config "github.com/calehh/signedvoting/config"
	cmtconfig "github.com/cometbft/cometbft/config"
	cmtflags "github.com/cometbft/cometbft/libs/cli/flags"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	nm "github.com/cometbft/cometbft/node"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
	"github.com/cometbft/cometbft/proxy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var homeDir string

var clCmd = &cobra.Command{
	Use:   "signedvoting",
	Short: "Signed voting ledger node",
	Long: `A CometBFT chain recording proposals and one vote per voter
at addresses derived from their identities.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	clCmd.Flags().StringVarP(&homeDir, "homedir", "d", "", "home directory")
}

func loadConfig(home string) (*app_config.Config, error) {
	appConfig := &app_config.Config{
		Config: app_config.DefaultCometConfig(),
		App:    app_config.DefaultAppConfig(home),
	}
	appConfig.SetRoot(home)
	viper.SetConfigFile(fmt.Sprintf("%s/%s", home, "config/config.toml"))
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := viper.Unmarshal(appConfig); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	appConfig.App.Home = home
	if err := appConfig.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid configuration data: %w", err)
	}
	return appConfig, nil
}

func run(cmd *cobra.Command, args []string) {
	if homeDir == "" {
		homeDir = app_config.DefaultHome()
	}
	appConfig, err := loadConfig(homeDir)
	if err != nil {
		log.Fatal(err)
	}

	pv := privval.LoadFilePV(
		appConfig.PrivValidatorKeyFile(),
		appConfig.PrivValidatorStateFile(),
	)

	nodeKey, err := p2p.LoadNodeKey(appConfig.NodeKeyFile())
	if err != nil {
		log.Fatalf("failed to load node's key: %v", err)
	}

	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
	logger, err = cmtflags.ParseLogLevel(appConfig.LogLevel, logger, cmtconfig.DefaultLogLevel)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}

	app, err := app.NewSVApp(appConfig.App, logger)
	if err != nil {
		log.Fatalf("new App err:%v", err)
	}

	node, err := nm.NewNode(
		appConfig.Config,
		pv,
		nodeKey,
		proxy.NewLocalClientCreator(app),
		nm.DefaultGenesisDocProviderFunc(appConfig.Config),
		cmtconfig.DefaultDBProvider,
		nm.DefaultMetricsProvider(appConfig.Instrumentation),
		logger,
	)
	if err != nil {
		log.Fatalf("Creating node: %v", err)
	}

	app.Start(node.BlockStore())
	err = node.Start()
	if err != nil {
		log.Fatalf("start comet node err %s", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	var service *agent.Service
	if appConfig.App.IndexerEnabled {
		service, err = startIndexer(ctx, appConfig, logger)
		if err != nil {
			log.Fatalf("start indexer err %s", err.Error())
		}
	}

	defer func() {
		log.Println("shut down...")
		cancel()
		done := make(chan struct{})
		go func() {
			defer close(done)
			if service != nil {
				sctx, scancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer scancel()
				if err := service.Stop(sctx); err != nil {
					log.Printf("stop indexer api err %s", err.Error())
				}
			}
			if err := node.Stop(); err != nil {
				log.Printf("stop comet node err %s", err.Error())
			}
			node.Wait()
			app.Stop()
		}()
		timer := time.NewTimer(time.Second * 10)
		select {
		case <-timer.C:
			os.Exit(1)
		case <-done:
			return
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

func startIndexer(ctx context.Context, appConfig *app_config.Config, logger cmtlog.Logger) (*agent.Service, error) {
	rpcUrl, err := url.Parse(appConfig.RPC.ListenAddress)
	if err != nil {
		return nil, err
	}
	rpcUrl.Scheme = "http"
	db, err := agent.OpenDB(appConfig.App.IndexerDBPath())
	if err != nil {
		return nil, err
	}
	indexer, err := agent.NewChainIndexer(logger, db, rpcUrl.String(), appConfig.App.IndexerInterval)
	if err != nil {
		db.Close()
		return nil, err
	}
	go indexer.Start(ctx)
	service := agent.NewService(logger, appConfig.App.IndexerListenAddr, indexer)
	go service.Start()
	return service, nil
}
