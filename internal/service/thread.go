// Package service contains the application's business logic.
package service

import (
	"sort"

	"glimpse/internal/models"
)

// BuildThread arranges a flat list of comments into a two-level thread:
// root comments newest first, each carrying its replies oldest first.
// Replies whose parent is not in the input (deleted roots, bad data) are
// dropped rather than promoted.
func BuildThread(comments []*models.Comment) []*models.Comment {
	roots := make([]*models.Comment, 0, len(comments))
	byID := make(map[uint]*models.Comment, len(comments))

	for _, c := range comments {
		if c.IsRoot() {
			c.Replies = nil
			c.RepliesCount = 0
			roots = append(roots, c)
			byID[c.ID] = c
		}
	}

	for _, c := range comments {
		if c.IsRoot() {
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			// Orphaned reply
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	for _, root := range roots {
		sort.SliceStable(root.Replies, func(i, j int) bool {
			a, b := root.Replies[i], root.Replies[j]
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
		root.RepliesCount = len(root.Replies)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		a, b := roots[i], roots[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return roots
}
