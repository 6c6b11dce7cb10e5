package domain

import (
	"sort"

	"clienthub.app/hub/internal/model"
)

// VisibleComments returns the comments the role may read, oldest first with
// Seq breaking created_at ties. Staff see everything; clients see only
// public comments; any other role sees nothing.
func VisibleComments(role model.Role, comments []model.Comment) []model.Comment {
	out := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		switch {
		case role.IsStaff():
			out = append(out, c)
		case role == model.RoleClient && !c.IsInternal:
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// CommentInternalFlag decides the stored is_internal value for a new comment.
// Client-authored comments are always public whatever was requested. Staff
// comments default to public.
func CommentInternalFlag(role model.Role, requested *bool) bool {
	if !role.IsStaff() {
		return false
	}
	return requested != nil && *requested
}
