package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/danmuck/popcop/internal/link"
	"github.com/danmuck/popcop/internal/logging"
	"github.com/danmuck/popcop/internal/observability"
	"github.com/danmuck/popcop/internal/standard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "popmon: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML port configuration file")
	device := flag.String("port", "", "serial device, overrides the config file")
	baud := flag.Int("baud", 0, "baud rate, overrides the config file")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address")
	flag.Parse()

	logger := logging.ConfigureRuntime("popmon")

	cfg, err := loadConfig(*configPath, *device, *baud)
	if err != nil {
		return err
	}

	port, err := serial.Open(cfg.Device, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	defer port.Close()

	if *metricsAddr != "" {
		observability.RegisterMetrics()
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	endpoint := link.New(port, link.Options{
		BufferCapacity: cfg.BufferCapacity,
		Name:           cfg.Device,
		Logger:         logger,
		Metrics:        *metricsAddr != "",
	})

	logger.Info().Str("device", cfg.Device).Int("baud", cfg.BaudRate).Msg("monitoring")

	for {
		frame, err := endpoint.ReceiveFrame()
		if err != nil {
			return err
		}
		if frame.TypeCode != standard.FrameTypeCode {
			logger.Info().
				Uint8("type_code", frame.TypeCode).
				Int("payload", len(frame.Payload)).
				Msg("frame")
			continue
		}
		logMessage(logger, frame.Payload)
	}
}

func logMessage(logger zerolog.Logger, payload []byte) {
	m := standard.Decode(payload)
	if m == nil {
		logger.Warn().Int("payload", len(payload)).Msg("undecodable standard frame")
		return
	}
	switch m := m.(type) {
	case *standard.EndpointInfoMessage:
		if m.IsRequest() {
			logger.Info().Msg("endpoint info request")
			return
		}
		logger.Info().
			Str("name", m.EndpointName).
			Str("description", m.EndpointDescription).
			Uint8("sw_major", m.SoftwareVersion.Major).
			Uint8("sw_minor", m.SoftwareVersion.Minor).
			Uint8("mode", uint8(m.Mode)).
			Msg("endpoint info")
	case *standard.RegisterDataRequestMessage:
		logger.Info().Str("name", m.Name).Uint8("tag", uint8(tagOf(m.Value))).Msg("register data request")
	case *standard.RegisterDataResponseMessage:
		logger.Info().
			Str("name", m.Name).
			Uint64("timestamp_us", m.Timestamp).
			Bool("mutable", m.Flags.Mutable()).
			Bool("persistent", m.Flags.Persistent()).
			Uint8("tag", uint8(tagOf(m.Value))).
			Msg("register data response")
	case *standard.RegisterDiscoveryRequestMessage:
		logger.Info().Uint16("index", m.Index).Msg("register discovery request")
	case *standard.RegisterDiscoveryResponseMessage:
		logger.Info().Uint16("index", m.Index).Str("name", m.Name).Msg("register discovery response")
	case *standard.DeviceManagementCommandRequestMessage:
		logger.Info().Uint16("command", uint16(m.Command)).Msg("device management request")
	case *standard.DeviceManagementCommandResponseMessage:
		logger.Info().
			Uint16("command", uint16(m.Command)).
			Uint8("status", uint8(m.Status)).
			Msg("device management response")
	case *standard.BootloaderStatusRequestMessage:
		logger.Info().Uint8("desired_state", uint8(m.DesiredState)).Msg("bootloader status request")
	case *standard.BootloaderStatusResponseMessage:
		logger.Info().
			Uint64("timestamp_us", m.Timestamp).
			Uint64("flags", m.Flags).
			Uint8("state", uint8(m.State)).
			Msg("bootloader status response")
	case *standard.BootloaderImageDataRequestMessage:
		logger.Info().
			Uint64("offset", m.ImageOffset).
			Uint8("image_type", uint8(m.ImageType)).
			Int("size", len(m.ImageData)).
			Msg("bootloader image data request")
	case *standard.BootloaderImageDataResponseMessage:
		logger.Info().
			Uint64("offset", m.ImageOffset).
			Uint8("image_type", uint8(m.ImageType)).
			Int("size", len(m.ImageData)).
			Msg("bootloader image data response")
	default:
		logger.Info().Uint16("message_id", uint16(m.MessageID())).Msg("message")
	}
}

func tagOf(v standard.RegisterValue) standard.RegisterValueTag {
	if v == nil {
		return standard.TagEmpty
	}
	return v.Tag()
}
