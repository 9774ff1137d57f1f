package handler

import (
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Photo  string `json:"photo,omitempty"`
}

func toUserDTO(u domain.UserRecord) UserDTO {
	return UserDTO{
		Name:   u.Name,
		Mobile: u.Mobile,
		Photo:  u.Photo,
	}
}

// ToastDTO is the JSON representation of a notification toast.
type ToastDTO struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func toToastDTO(t domain.Toast) ToastDTO {
	return ToastDTO{
		ID:       t.ID,
		Message:  t.Message,
		Severity: string(t.Severity),
	}
}

func toToastDTOs(toasts []domain.Toast) []ToastDTO {
	dtos := make([]ToastDTO, len(toasts))
	for i, t := range toasts {
		dtos[i] = toToastDTO(t)
	}
	return dtos
}

// ChatMessageDTO is the JSON representation of one chat turn.
type ChatMessageDTO struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func toChatMessageDTO(m domain.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		Timestamp: m.Timestamp.Format(time.RFC3339),
	}
}

func toChatMessageDTOs(messages []domain.ChatMessage) []ChatMessageDTO {
	dtos := make([]ChatMessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = toChatMessageDTO(m)
	}
	return dtos
}

// StudioImageDTO is the JSON representation of a generated image's metadata.
// The bytes themselves are fetched through the file endpoint.
type StudioImageDTO struct {
	ID          string `json:"id"`
	Prompt      string `json:"prompt"`
	Size        string `json:"size"`
	ContentType string `json:"contentType"`
	URL         string `json:"url"`
	CreatedAt   string `json:"createdAt"`
}

func toStudioImageDTO(img domain.StudioImage) StudioImageDTO {
	return StudioImageDTO{
		ID:          img.ID,
		Prompt:      img.Prompt,
		Size:        string(img.Size),
		ContentType: img.ContentType,
		URL:         "/api/studio/images/" + img.ID + "/file",
		CreatedAt:   img.CreatedAt.Format(time.RFC3339),
	}
}

func toStudioImageDTOs(images []domain.StudioImage) []StudioImageDTO {
	dtos := make([]StudioImageDTO, len(images))
	for i, img := range images {
		dtos[i] = toStudioImageDTO(img)
	}
	return dtos
}
