// Package main provides the entry point for the SocialSphere application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/di"
	"github.com/socialsphere/socialsphere-app/internal/di/providers"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/router"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap app: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Kick off the startup flow: restore the previous session, load the
	// feed, and paint the initial regions.
	routerHandle := do.MustInvoke[*providers.RouterHandle](injector)
	routerHandle.Dispatch(router.AppStarted{})

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Storage and the search index use wrapper types, so close them
	// explicitly in case container shutdown missed them
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		log.Info("Closing record store...")
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close record store", "error", err)
		} else {
			log.Info("Record store closed successfully")
		}
	}

	if cacheHandle, err := do.Invoke[*providers.CacheHandle](injector); err == nil {
		log.Info("Closing session cache...")
		if err := cacheHandle.Shutdown(); err != nil {
			log.Error("Failed to close session cache", "error", err)
		} else {
			log.Info("Session cache closed successfully")
		}
	}

	if searchHandle, err := do.Invoke[*providers.SearchIndexHandle](injector); err == nil {
		log.Info("Closing search index...")
		if err := searchHandle.Shutdown(); err != nil {
			log.Error("Failed to close search index", "error", err)
		} else {
			log.Info("Search index closed successfully")
		}
	}

	log.Info("Goodbye.")
}
