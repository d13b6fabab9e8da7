//go:build wireinject
// +build wireinject

package di

import (
	"BottomScan/pkg/config"
	"BottomScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideJournal,
		ProvidePublisher,

		// Domain services
		ProvideBarStore,
		ProvideProvider,
		ProvideBarUpdater,
		ProvideIndicatorEngine,
		ProvideAlertEngine,
		ProvideInterpreter,
		ProvideGate,
		ProvideNotifier,
		ProvideConverter,

		// Use cases
		ProvideScannerRuntime,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
