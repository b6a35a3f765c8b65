package dto

import "mime/multipart"

// VideoUploadRequest is the multipart form for a local video upload.
type VideoUploadRequest struct {
	Title       string                `form:"title" binding:"required"`
	Description string                `form:"description"`
	File        *multipart.FileHeader `form:"file" binding:"required"`
}

// VideoUpdateRequest updates mutable video metadata.
type VideoUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// VideoListRequest pages through the owner's videos.
type VideoListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
