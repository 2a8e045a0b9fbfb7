// internal/api/query.go
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/command"
	"github.com/tamzrod/rsswitch/internal/encoder"
)

func malformed(format string, args ...any) error {
	return errors.Wrapf(command.ErrMalformed, format, args...)
}

// requestFromQuery reads encoder, group, socket and data. Missing fields are 0.
func requestFromQuery(r *http.Request) (encoder.Request, error) {
	q := r.URL.Query()
	var req encoder.Request

	if v := q.Get("encoder"); v != "" {
		k, err := encoder.ParseKind(v)
		if err != nil {
			return req, err
		}
		req.Kind = k
	}

	for _, f := range []struct {
		key string
		dst *uint
	}{
		{"group", &req.Group},
		{"socket", &req.Socket},
		{"data", &req.Data},
	} {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		n, err := parseIndex(f.key, v)
		if err != nil {
			return req, err
		}
		*f.dst = n
	}
	return req, nil
}

func legacyRequest(r *http.Request) (encoder.Request, error) {
	q := r.URL.Query()

	// form fields of the old CGI page: sock_group<N>=on|off, group<N>=<socket>
	for g := 0; g < 16; g++ {
		n := strconv.Itoa(g)
		state := q.Get("sock_group" + n)
		if state == "" {
			continue
		}
		data, err := parseState(state)
		if err != nil {
			return encoder.Request{}, err
		}
		socket, err := parseIndex("group"+n, q.Get("group"+n))
		if err != nil {
			return encoder.Request{}, err
		}
		return encoder.Request{Kind: encoder.PT2260, Group: uint(g), Socket: socket, Data: data}, nil
	}

	req, err := requestFromQuery(r)
	if err != nil {
		return req, err
	}
	if v := q.Get("state"); v != "" {
		data, err := parseState(v)
		if err != nil {
			return req, err
		}
		req.Data = data
	}
	return req, nil
}

func parseIndex(key, v string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
	if err != nil {
		return 0, malformed("%s=%q", key, v)
	}
	return uint(n), nil
}

// parseState maps a switch state to a data index. 0 = off, 1 = on.
func parseState(v string) (uint, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "1", "true":
		return 1, nil
	case "off", "0", "false":
		return 0, nil
	}
	return 0, malformed("state %q", v)
}
