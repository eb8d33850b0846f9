// Package resolver binds the wire codec, cache, blocklist, alt-naming
// dispatcher and upstream load balancer into the query pipeline: wire
// parse, then the alt-naming, blocklist, cache and upstream stages.
package resolver

import (
	"time"

	"github.com/dnsresolver/coreresolver/metrics"
	"github.com/dnsresolver/coreresolver/wire"
)

// Stage is one link in the pipeline. A stage either produces a response
// and calls Context.Abort to short-circuit the remainder, or leaves the
// response unset and falls through to the next stage.
type Stage interface {
	Name() string
	Handle(*Context)
}

const abortIndex int8 = 1<<6 - 1

// Context carries one query through the pipeline. Resolve builds a fresh
// Context for every query; Reset zeroes every field a stage might have
// set, so a Context can also be rebound to another query.
type Context struct {
	Query    *wire.QueryView
	Response []byte
	Now      time.Time

	stages []Stage
	index  int8
}

// NewContext returns a Context bound to stages. It is safe to share
// stages across many Contexts.
func NewContext(stages []Stage) *Context {
	return &Context{stages: stages, index: -1}
}

// Reset rebinds the context to a new query, ready for reuse from a pool.
func (c *Context) Reset(q *wire.QueryView, now time.Time) {
	c.Query = q
	c.Response = nil
	c.Now = now
	c.index = -1
}

// Next runs the remaining stages in order. A stage calls Next itself if
// it wants to delegate rather than terminate immediately; most stages
// instead just return after setting (or not setting) Response, and the
// loop below advances on their behalf until a Response is set.
func (c *Context) Next() {
	c.index++
	for n := int8(len(c.stages)); c.index < n; c.index++ {
		c.stages[c.index].Handle(c)
		if c.Response != nil {
			return
		}
	}
}

// Abort stops the pipeline after the current stage.
func (c *Context) Abort() {
	c.index = abortIndex
}

// Pipeline runs a fixed ordered stage list over inbound queries.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline from stages, run in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Resolve parses raw and runs it through every stage until one produces
// a response. It returns nil if the datagram fails to parse, per the
// error-handling contract, malformed queries are dropped silently, not
// answered.
func (p *Pipeline) Resolve(raw []byte, now time.Time) []byte {
	q, err := wire.Parse(raw)
	if err != nil {
		return nil
	}

	c := NewContext(p.stages)
	c.Reset(q, now)
	c.Next()

	if c.Response != nil {
		metrics.ObserveQuery(q.QType, wire.Rcode(c.Response))
	}
	return c.Response
}
