package dto

import (
	"time"

	"clienthub.app/hub/internal/model"
)

type CreateCommentRequest struct {
	Content    string `json:"content" binding:"required,min=1,max=5000" jsonschema:"required,maxLength=5000"`
	IsInternal *bool  `json:"is_internal,omitempty" jsonschema:"description=Staff only; hidden from portal clients"`
}

type CommentResponse struct {
	ID         int64     `json:"id,string"`
	RequestID  int64     `json:"request_id,string"`
	ProfileID  int64     `json:"profile_id,string"`
	AuthorName string    `json:"author_name,omitempty"`
	AuthorRole string    `json:"author_role,omitempty"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		RequestID:  c.RequestID,
		ProfileID:  c.ProfileID,
		AuthorName: c.AuthorName,
		AuthorRole: string(c.AuthorRole),
		Content:    c.Content,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

func ToCommentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i]))
	}
	return out
}
