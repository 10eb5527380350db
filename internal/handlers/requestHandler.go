package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/pdfchat/internal/adapter"
	"github.com/akolanti/pdfchat/internal/adapter/utils"
	"github.com/akolanti/pdfchat/internal/api"
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id           string
	chatId       string
	message      string
	isNewChat    bool
	traceId      string
	jobType      jobModel.JobType
	userId       string
	fileKey      string
	pdfName      string
	documentName string
	documentKey  string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a message, initializes a background processing job, and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Chat Message and optional Chat ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or chat ID"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {

			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
			return
		}

		fileKey := resolveFileKey(requestData)
		if fileKey == "" {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Chat is not bound to a document")
			return
		}

		chatID := requestData.ChatID
		isNewChat := chatID == ""
		if isNewChat {
			chatID = utils.GetNewUUID()
			logRH.Debug(" New Chat request : ", "chatID:", chatID)
		}

		newJob := newJobData{
			id:        utils.GetNewUUID(),
			chatId:    chatID,
			message:   requestData.Message,
			isNewChat: isNewChat,
			traceId:   request.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:   jobModel.JobTypeQuery,
			userId:    requestData.UserId,
			fileKey:   fileKey,
			pdfName:   requestData.PdfName,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// VoiceSearchHandler godoc
// @Summary      Search across all user documents
// @Description  Accepts a question and answers it against every document the user has uploaded.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.VoiceSearchRequest  true  "Question and user id"
// @Success      202      {object}  api.InitJobResponse     "Job successfully created"
// @Failure      400      {object}  api.JobResponse         "Invalid request data"
// @Router       /voice-search [post]
func VoiceSearchHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		var requestData api.VoiceSearchRequest
		defer request.Body.Close()
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil ||
			requestData.Question == "" || requestData.UserId == "" {

			logRH.Warn("Bad Voice Search Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		newJob := newJobData{
			id:      utils.GetNewUUID(),
			message: requestData.Question,
			traceId: request.Context().Value(config.TRACE_ID_KEY).(string),
			jobType: jobModel.JobTypeVoiceSearch,
			userId:  requestData.UserId,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler handles the uploading of PDF or DOCX documents for RAG ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, stores it, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF or DOCX file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id and file key"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		//process request
		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}

		//get the document name the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		fileKey, err := handlerInstance.fileStore.Put(r.Context(), fileMetadata.Filename, fileReader)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}

		newJob := newJobData{
			id:           utils.GetNewUUID(),
			traceId:      r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:      jobModel.JobTypeIngest,
			documentName: docName,
			documentKey:  fileKey,
		}
		CreateNewJob(newJob)

		res := adapter.ToInitJobResponse(newJob.id)
		res.FileKey = fileKey
		writeJsonResponse(w, http.StatusAccepted, res)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetDocumentHandler godoc
// @Summary      Download a stored document
// @Description  Streams the stored original document back to the client.
// @Tags         Documents
// @Produce      application/octet-stream
// @Param        key  path  string  true  "Document key"
// @Success      200  "The document bytes"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{key}/file [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		fileKey := utils.GetChiURLParam(r, "key")

		reader, err := handlerInstance.fileStore.Open(r.Context(), fileKey)
		if err != nil {
			WriteErrorResponse(w, http.StatusNotFound, fileKey, "Document not found")
			return
		}
		defer reader.Close()

		w.Header().Set("Content-Type", contentTypeForKey(fileKey))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, reader); err != nil {
			logRH.Error("Error streaming document", "fileKey", fileKey, "error", err)
		}
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Deletes the document, its vector namespace and every chat bound to it.
// @Tags         Documents
// @Produce      json
// @Param        key  path  string  true  "Document key"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{key} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		fileKey := utils.GetChiURLParam(r, "key")
		if fileKey == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Document key is required")
			return
		}

		if err := handlerInstance.ragService.DeleteDocument(r.Context(), fileKey); err != nil {
			logRH.Error("Error deleting document", "fileKey", fileKey, "error", err)
			WriteErrorResponse(w, http.StatusNotFound, fileKey, "Document not found")
			return
		}

		// chats over a deleted document are useless, cascade them away
		if err := handlerInstance.service.ChatStore.DeleteChatsForDocument(r.Context(), fileKey); err != nil {
			logRH.Error("Error cascading chat deletion", "fileKey", fileKey, "error", err)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
