package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-botcore/internal/console"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"
)

type ConsoleType int

const (
	ConsoleTypeTelnet ConsoleType = iota
	ConsoleTypeSSH
)

func (ct *ConsoleType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*ct = ConsoleTypeTelnet
	case "ssh":
		*ct = ConsoleTypeSSH
	default:
		return fmt.Errorf("unknown console type: %s", text)
	}
	return nil
}

type ConsoleConfig struct {
	Protocol    ConsoleType `json:"protocol"`
	Port        uint16      `json:"port"`
	HostKeyPath string      `json:"host_key_path,omitempty"`
}

func (cc *ConsoleConfig) validate() error {
	el := errors.NewErrorList()

	if cc.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

func (cc *ConsoleConfig) buildListener(cm *console.ConnectionManager) (service.Worker, error) {
	switch cc.Protocol {
	case ConsoleTypeTelnet:
		return console.NewTelnetListener(cc.Port, cm), nil
	case ConsoleTypeSSH:
		hostKey, err := cc.loadOrGenerateHostKey()
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return console.NewSshListener(cc.Port, cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown console type: %v", cc.Protocol)
	}
}

func (cc *ConsoleConfig) loadOrGenerateHostKey() (ssh.Signer, error) {
	if cc.HostKeyPath != "" {
		keyBytes, err := os.ReadFile(cc.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading host key %q: %w", cc.HostKeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing host key %q: %w", cc.HostKeyPath, err)
		}
		return signer, nil
	}

	slog.Warn("no host_key_path configured for ssh console, generating ephemeral key")
	_, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ephemeral key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("creating signer from ephemeral key: %w", err)
	}
	return signer, nil
}
