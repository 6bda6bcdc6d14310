package handlers

import (
	"strings"

	"fin-dashboard/internal/dto"
	"fin-dashboard/internal/models"
	"fin-dashboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	maxUpload   int64
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, maxUpload int64, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		maxUpload:   maxUpload,
		logger:      logger,
	}
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Classifies the message, runs the data operation it asks for or answers it with the assistant, and returns one reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Chat message"
// @Security Bearer
// @Success 200 {object} dto.ChatReplyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/chat/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "Message is required")
	}

	reply, err := h.chatService.SendMessage(c.UserContext(), userID, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.ChatReplyResponse{
		Reply:     reply.Reply,
		Document:  reply.Document,
		Operation: string(reply.Operation),
		Source:    string(reply.Source),
		Table:     string(reply.Table),
		Records:   reply.Records,
		ErrorKind: reply.Kind,
	})
}

// SetDocument godoc
// @Summary Replace the working JSON document
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.SetDocumentRequest true "Document text"
// @Security Bearer
// @Success 204
// @Router /api/v1/chat/document [put]
func (h *ChatHandler) SetDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SetDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	h.chatService.SetDocument(userID, req.Document)
	return c.SendStatus(fiber.StatusNoContent)
}

// Upload godoc
// @Summary Upload a file into the chat session
// @Description Extracts a csv, xlsx, xls or pdf file and loads the extract into the working document
// @Tags chat
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "csv, xlsx, xls or pdf file"
// @Security Bearer
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Router /api/v1/chat/upload [post]
func (h *ChatHandler) Upload(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}
	if h.maxUpload > 0 && file.Size > h.maxUpload {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Error: "File is too large"})
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, "Failed to open file")
	}
	defer src.Close()

	data, err := h.chatService.Upload(c.UserContext(), userID, file.Filename, src)
	if err != nil {
		h.logger.Warn("Upload rejected",
			zap.String("file", file.Filename),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	snap := h.chatService.Snapshot(userID)
	resp := uploadResponse(data)
	resp.Document = snap.Document
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Clear godoc
// @Summary Clear the chat session
// @Tags chat
// @Security Bearer
// @Success 204
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/chat/session [delete]
func (h *ChatHandler) Clear(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.chatService.Clear(userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary Get the chat session
// @Description Returns the transcript, the working document and the last upload
// @Tags chat
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SessionResponse
// @Router /api/v1/chat/session [get]
func (h *ChatHandler) Session(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	snap := h.chatService.Snapshot(userID)
	resp := dto.SessionResponse{
		Messages: make([]dto.MessageResponse, 0, len(snap.Messages)),
		Document: snap.Document,
	}
	for _, m := range snap.Messages {
		resp.Messages = append(resp.Messages, dto.MessageResponse{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	if snap.Upload != nil {
		upload := uploadResponse(snap.Upload)
		resp.Upload = &upload
	}
	return c.JSON(resp)
}

func uploadResponse(data *models.ExtractedData) dto.UploadResponse {
	return dto.UploadResponse{
		FileID:          data.FileID,
		FileName:        data.FileName,
		FileType:        data.FileType,
		UploadTimestamp: data.UploadTimestamp,
		Content:         data.Content,
	}
}
