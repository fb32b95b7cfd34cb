package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"

	"github.com/danmuck/popcop/internal/link"
	"github.com/danmuck/popcop/internal/logging"
	"github.com/danmuck/popcop/internal/standard"
)

const usage = `usage: popreg [flags] <verb> [args]

verbs:
  list                    discover all registers
  get <name>              read one register
  set <name> <value...>   write one register (see --type)
`

var errTimeout = errors.New("timed out waiting for a response")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "popreg: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML port configuration file")
	device := flag.String("port", "", "serial device, overrides the config file")
	baud := flag.Int("baud", 0, "baud rate, overrides the config file")
	valueType := flag.String("type", "str", "value type for set: str|bytes|bool|i8|i16|i32|i64|u8|u16|u32|u64|f32|f64")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logging.ConfigureRuntime("popreg")

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("no verb")
	}

	cfg, err := loadConfig(*configPath, *device, *baud)
	if err != nil {
		return err
	}

	port, err := serial.Open(cfg.Device, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	defer port.Close()
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		return fmt.Errorf("set read timeout: %w", err)
	}

	endpoint := link.New(&deadlinePort{port}, link.Options{
		BufferCapacity: cfg.BufferCapacity,
		Name:           cfg.Device,
		Logger:         logger,
	})

	switch verb := args[0]; verb {
	case "list":
		return listRegisters(endpoint)
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("get takes exactly one register name")
		}
		return getRegister(endpoint, args[1])
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("set takes a register name and a value")
		}
		value, err := parseValue(*valueType, args[2:])
		if err != nil {
			return err
		}
		return setRegister(endpoint, args[1], value)
	default:
		flag.Usage()
		return fmt.Errorf("unknown verb %q", verb)
	}
}

func listRegisters(endpoint *link.Endpoint) error {
	for index := uint16(0); ; index++ {
		if err := endpoint.SendMessage(&standard.RegisterDiscoveryRequestMessage{Index: index}); err != nil {
			return err
		}
		resp, err := awaitDiscovery(endpoint, index)
		if err != nil {
			return err
		}
		if resp.Name == "" {
			return nil
		}
		fmt.Printf("%4d  %s\n", resp.Index, resp.Name)
	}
}

func getRegister(endpoint *link.Endpoint, name string) error {
	req := &standard.RegisterDataRequestMessage{Name: name}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := endpoint.SendMessage(req); err != nil {
		return err
	}
	resp, err := awaitData(endpoint, name)
	if err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", resp.Name, formatValue(resp.Value))
	return nil
}

func setRegister(endpoint *link.Endpoint, name string, value standard.RegisterValue) error {
	req := &standard.RegisterDataRequestMessage{Name: name, Value: value}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := endpoint.SendMessage(req); err != nil {
		return err
	}
	resp, err := awaitData(endpoint, name)
	if err != nil {
		return err
	}
	if !resp.Flags.Mutable() {
		fmt.Printf("%s is immutable; current value %s\n", resp.Name, formatValue(resp.Value))
		return nil
	}
	fmt.Printf("%s = %s\n", resp.Name, formatValue(resp.Value))
	return nil
}

func awaitDiscovery(endpoint *link.Endpoint, index uint16) (*standard.RegisterDiscoveryResponseMessage, error) {
	for {
		m, err := endpoint.ReceiveMessage()
		if err != nil {
			return nil, err
		}
		if resp, ok := m.(*standard.RegisterDiscoveryResponseMessage); ok && resp.Index == index {
			return resp, nil
		}
	}
}

func awaitData(endpoint *link.Endpoint, name string) (*standard.RegisterDataResponseMessage, error) {
	for {
		m, err := endpoint.ReceiveMessage()
		if err != nil {
			return nil, err
		}
		if resp, ok := m.(*standard.RegisterDataResponseMessage); ok && resp.Name == name {
			return resp, nil
		}
	}
}

// deadlinePort turns go.bug.st's zero-byte timeout reads into errors so a
// silent device fails the exchange instead of spinning.
type deadlinePort struct {
	serial.Port
}

func (p *deadlinePort) Read(buf []byte) (int, error) {
	n, err := p.Port.Read(buf)
	if n == 0 && err == nil {
		return 0, errTimeout
	}
	if err == io.EOF {
		return n, errTimeout
	}
	return n, err
}
