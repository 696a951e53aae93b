package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fxodell/dnp3/pkg/config"
	"github.com/fxodell/dnp3/pkg/master"
	"github.com/fxodell/dnp3/pkg/objects"
)

func main() {
	iniPath := flag.String("config", "", "path to a DNP3 master INI config file (overrides the flags below)")
	host := flag.String("host", "127.0.0.1", "outstation TCP host")
	port := flag.Int("port", 20000, "outstation TCP port")
	masterAddr := flag.Int("master", 1, "master station address")
	outstationAddr := flag.Int("outstation", 10, "outstation address")
	pollEvery := flag.Duration("poll", 30*time.Second, "integrity poll interval")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Default()
	var err error
	if *iniPath != "" {
		cfg, err = config.LoadINI(*iniPath)
	} else {
		cfg.Host = *host
		cfg.Port = *port
		cfg.MasterAddress = *masterAddr
		cfg.OutstationAddress = *outstationAddr
		err = cfg.Validate()
	}
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	stream := master.NewTCPStream(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	m := master.NewMaster(cfg, stream)

	m.SetUnsolicitedCallback(func(result master.PollResult) {
		log.WithField("correlation_id", uuid.NewString()).Infof(
			"unsolicited response: %d binary inputs, %d analog inputs, %d counters",
			len(result.BinaryInputs), len(result.AnalogInputs), len(result.Counters))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	if err := m.Open(ctx); err != nil {
		log.Fatalf("open failed: %v", err)
	}
	defer m.Close()

	if err := m.EnableUnsolicited(ctx, objects.Class1, objects.Class2, objects.Class3); err != nil {
		log.Warnf("enable unsolicited responses failed: %v", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return runIntegrityPollLoop(ctx, m, *pollEvery)
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		log.Errorf("master exited with error: %v", err)
		os.Exit(1)
	}
}

func runIntegrityPollLoop(ctx context.Context, m *master.Master, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			id := uuid.NewString()
			result := m.IntegrityPoll(ctx)
			if result.Error != nil {
				log.WithField("correlation_id", id).Warnf("integrity poll failed: %v", result.Error)
				continue
			}
			log.WithField("correlation_id", id).Infof(
				"integrity poll: %d binary inputs, %d analog inputs, %d counters, %d binary outputs, %d analog outputs",
				len(result.BinaryInputs), len(result.AnalogInputs), len(result.Counters),
				len(result.BinaryOutputs), len(result.AnalogOutputs))
		}
	}
}
