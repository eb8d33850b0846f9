// Package blocklist implements the resolver's domain policy filter: an
// immutable-after-construction trie over dotted domain names, matched by
// label boundary from the TLD down.
package blocklist

import "strings"

type trieNode struct {
	children map[string]*trieNode
	terminal bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// trie is a prefix trie over the label sequence of a dotted name, walked
// from the TLD inward (i.e. labels are inserted in reverse order) so that
// a suffix match corresponds to a root-to-node walk terminating early.
type trie struct {
	root *trieNode
}

func newTrie() *trie {
	return &trie{root: newTrieNode()}
}

// insert adds pattern as a terminal node. Only called during
// construction; the trie is read-only afterward.
func (t *trie) insert(pattern string) {
	labels := reversedLabels(pattern)
	node := t.root
	for _, label := range labels {
		child, ok := node.children[label]
		if !ok {
			child = newTrieNode()
			node.children[label] = child
		}
		node = child
	}
	node.terminal = true
}

// containsExact reports whether qname is, in its entirety, a pattern
// inserted into the trie.
func (t *trie) containsExact(qname string) bool {
	labels := reversedLabels(qname)
	node := t.root
	for _, label := range labels {
		child, ok := node.children[label]
		if !ok {
			return false
		}
		node = child
	}
	return node.terminal
}

// containsSuffix reports whether any label-boundary suffix of qname, that
// is, qname itself or any of its parent domains, was inserted into the
// trie. This is the subdomain-blocking behaviour real blocklists expect:
// blocking "example.com" also blocks "ads.example.com".
func (t *trie) containsSuffix(qname string) bool {
	labels := reversedLabels(qname)
	node := t.root
	for _, label := range labels {
		child, ok := node.children[label]
		if !ok {
			return false
		}
		node = child
		if node.terminal {
			return true
		}
	}
	return false
}

// reversedLabels splits a dotted name into lowercase labels ordered from
// the TLD inward.
func reversedLabels(name string) []string {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if name == "" {
		return nil
	}
	parts := strings.Split(name, ".")
	reversed := make([]string, len(parts))
	for i, p := range parts {
		reversed[len(parts)-1-i] = p
	}
	return reversed
}
