// internal/mqtt/topic.go
package mqtt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/command"
	"github.com/tamzrod/rsswitch/internal/encoder"
)

const (
	suffixSet   = "set"
	suffixState = "state"

	StatusOnline  = "online"
	StatusOffline = "offline"
)

// SetFilter is the subscription filter for commands under prefix.
func SetFilter(prefix string) string {
	return prefix + "/+/+/+/" + suffixSet
}

// StatusTopic carries the online/offline presence of the daemon.
func StatusTopic(prefix string) string {
	return prefix + "/status"
}

// StateTopic is where the last commanded state of one socket is retained.
func StateTopic(prefix string, req encoder.Request) string {
	return strings.Join([]string{
		prefix,
		req.Kind.String(),
		strconv.FormatUint(uint64(req.Group), 10),
		strconv.FormatUint(uint64(req.Socket), 10),
		suffixState,
	}, "/")
}

// ParseSetTopic reads <prefix>/<encoder>/<group>/<socket>/set.
// The encoder may be a chip name or its number.
func ParseSetTopic(prefix, topic string) (encoder.Request, error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok {
		return encoder.Request{}, errors.Wrapf(command.ErrMalformed, "topic %q outside %q", topic, prefix)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 4 || parts[3] != suffixSet {
		return encoder.Request{}, errors.Wrapf(command.ErrMalformed, "topic %q", topic)
	}

	kind, err := encoder.ParseKind(parts[0])
	if err != nil {
		return encoder.Request{}, err
	}
	group, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return encoder.Request{}, errors.Wrapf(command.ErrMalformed, "group %q", parts[1])
	}
	socket, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return encoder.Request{}, errors.Wrapf(command.ErrMalformed, "socket %q", parts[2])
	}
	return encoder.Request{Kind: kind, Group: uint(group), Socket: uint(socket)}, nil
}

// ParsePayload maps on/off style payloads to a data index.
func ParsePayload(b []byte) (uint, error) {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "on", "1", "true":
		return 1, nil
	case "off", "0", "false":
		return 0, nil
	}
	return 0, errors.Wrapf(command.ErrMalformed, "payload %q", b)
}

// StatePayload is the inverse of ParsePayload.
func StatePayload(data uint) string {
	if data == 1 {
		return "on"
	}
	return "off"
}
