// Package trie stores path prefixes split into segments.
package trie

import (
	"sort"
	"strings"
)

// NodeIndex is the position of a node in the arena.
type NodeIndex int

// Arena holds every node of a trie in one slice. Children refer to each
// other by index.
type Arena struct {
	nodes []arenaNode
}

type arenaNode struct {
	// children maps a path segment to the index of its node.
	children map[string]NodeIndex
	// isEnd marks the last segment of an inserted path.
	isEnd bool
}

func NewArena() *Arena {
	arena := &Arena{
		nodes: make([]arenaNode, 0, 64),
	}
	arena.nodes = append(arena.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return arena
}

func (a *Arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return idx
}

// Insert adds the path made of segments.
func (a *Arena) Insert(segments []string) {
	current := NodeIndex(0)
	for _, part := range segments {
		childIdx, exists := a.nodes[current].children[part]
		if !exists {
			childIdx = a.newNode()
			a.nodes[current].children[part] = childIdx
		}
		current = childIdx
	}
	a.nodes[current].isEnd = true
}

// MatchPrefix reports whether an inserted path is segments itself or one
// of its leading parts. The empty path matches only when it was inserted.
func (a *Arena) MatchPrefix(segments []string) bool {
	current := NodeIndex(0)
	if a.nodes[current].isEnd {
		return true
	}
	for _, part := range segments {
		next, ok := a.nodes[current].children[part]
		if !ok {
			return false
		}
		if a.nodes[next].isEnd {
			return true
		}
		current = next
	}
	return false
}

// Len returns the number of nodes, root included.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// DebugString renders the trie with children in sorted order. Inserted
// paths end with '*'.
func (a *Arena) DebugString() string {
	return a.debugStringNode(NodeIndex(0))
}

func (a *Arena) debugStringNode(idx NodeIndex) string {
	node := a.nodes[idx]
	var sb strings.Builder
	if node.isEnd {
		sb.WriteString("*")
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(a.debugStringNode(node.children[key]))
		sb.WriteString(")")
	}
	return sb.String()
}

// PathTrie matches slash separated paths against a set of prefixes.
type PathTrie struct {
	arena *Arena
}

func New() *PathTrie {
	return &PathTrie{arena: NewArena()}
}

// Split breaks a slash separated path into its non-empty segments.
func Split(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	return segments
}

// Add inserts path as a prefix.
func (t *PathTrie) Add(path string) {
	t.arena.Insert(Split(path))
}

// Match reports whether path equals an added prefix or lies below one.
func (t *PathTrie) Match(path string) bool {
	return t.arena.MatchPrefix(Split(path))
}

func (t *PathTrie) DebugString() string {
	return t.arena.DebugString()
}
