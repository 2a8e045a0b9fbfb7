package encoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEncodeScenarios(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		req  Request
		want Codeword
	}{
		{Request{Kind: PT2260, Group: 0, Socket: 0, Data: 1}, "1FFF1FF00010"},
		{Request{Kind: PT2262, Group: 15, Socket: 3, Data: 0}, "0000FFFFFFF0"},
		{Request{Kind: PT2260, Group: 3, Socket: 2, Data: 0}, "FFF1FF100001"},
		{Request{Kind: PT2262, Group: 0, Socket: 0, Data: 1}, "FFFFF0FFFF0F"},
	}

	for _, tt := range tests {
		c.Run(tt.req.String(), func(c *qt.C) {
			_, cw, err := Encode(tt.req)
			c.Assert(err, qt.IsNil)
			c.Assert(cw, qt.Equals, tt.want)
		})
	}
}

func TestEncodeRejects(t *testing.T) {
	c := qt.New(t)

	_, _, err := Encode(Request{Kind: PT2260, Group: 4})
	c.Assert(errors.Is(err, ErrOutOfRange), qt.IsTrue)

	_, _, err = Encode(Request{Kind: 99})
	c.Assert(errors.Is(err, ErrUnknownEncoder), qt.IsTrue)
}

func TestValidateBoundsPT2260(t *testing.T) {
	c := qt.New(t)
	p, err := Lookup(PT2260)
	c.Assert(err, qt.IsNil)

	accepted := 0
	for g := uint(0); g <= 5; g++ {
		for s := uint(0); s <= 4; s++ {
			for d := uint(0); d <= 3; d++ {
				err := Validate(p, g, s, d)
				inRange := g < 4 && s < 3 && d < 2
				if inRange {
					c.Assert(err, qt.IsNil, qt.Commentf("g=%d s=%d d=%d", g, s, d))
					accepted++
					continue
				}
				c.Assert(errors.Is(err, ErrOutOfRange), qt.IsTrue, qt.Commentf("g=%d s=%d d=%d", g, s, d))
			}
		}
	}
	c.Assert(accepted, qt.Equals, 4*3*2)
}

func TestCodewordsDistinctAndFixedLength(t *testing.T) {
	for _, p := range Profiles() {
		p := p
		t.Run(p.Name, func(t *testing.T) {
			c := qt.New(t)
			seen := map[Codeword]bool{}
			for g := range p.Groups {
				for s := range p.Sockets {
					for d := range p.Data {
						cw := Build(p, uint(g), uint(s), uint(d))
						c.Assert(len(cw), qt.Equals, 12)
						c.Assert(cw.Check(), qt.IsNil)
						c.Assert(seen[cw], qt.IsFalse, qt.Commentf("duplicate %s", cw))
						seen[cw] = true

						// deterministic
						c.Assert(Build(p, uint(g), uint(s), uint(d)), qt.Equals, cw)
					}
				}
			}
			c.Assert(len(seen), qt.Equals, len(p.Groups)*len(p.Sockets)*len(p.Data))
		})
	}
}

func TestProfileTablesWellFormed(t *testing.T) {
	c := qt.New(t)
	for _, p := range Profiles() {
		c.Assert(p.Data, qt.HasLen, 2)
		for _, tbl := range [][]string{p.Groups, p.Sockets, p.Data} {
			for _, code := range tbl {
				c.Assert(code, qt.HasLen, 4)
				c.Assert(Codeword(code).Check(), qt.IsNil)
			}
		}
	}
}

func TestLookupIdempotentAndIsolated(t *testing.T) {
	c := qt.New(t)

	a, err := Lookup(PT2260)
	c.Assert(err, qt.IsNil)
	a.Groups[0] = "XXXX"

	b, err := Lookup(PT2260)
	c.Assert(err, qt.IsNil)
	c.Assert(b.Groups[0], qt.Equals, "1FFF")

	again, _ := Lookup(PT2260)
	c.Assert(again, qt.DeepEquals, b)
}

func TestCheckMalformed(t *testing.T) {
	c := qt.New(t)
	err := Codeword("1FFX").Check()
	c.Assert(errors.Is(err, ErrMalformedCodeword), qt.IsTrue)
}

func TestKindParsing(t *testing.T) {
	c := qt.New(t)

	for in, want := range map[string]Kind{"PT2260": PT2260, "pt2262": PT2262, "1": PT2262, "99": 99} {
		k, err := ParseKind(in)
		c.Assert(err, qt.IsNil)
		c.Assert(k, qt.Equals, want)
	}

	_, err := ParseKind("PT9999")
	c.Assert(errors.Is(err, ErrUnknownEncoder), qt.IsTrue)

	for _, js := range []string{`{"encoder":"PT2262","group":2}`, `{"encoder":1,"group":2}`} {
		var r Request
		c.Assert(json.Unmarshal([]byte(js), &r), qt.IsNil)
		c.Assert(r, qt.Equals, Request{Kind: PT2262, Group: 2})
	}

	c.Assert(fmt.Sprint(Kind(7)), qt.Equals, "kind(7)")
}
