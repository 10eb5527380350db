package commonModels

import "time"

type Document struct {
	Key                 string    `json:"file_key"`
	Name                string    `json:"doc_name"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

// ChunkType tags the variant a stored chunk's metadata belongs to.
// Regular text chunks carry text+page; the single images-index chunk per
// document carries the serialized ImageRecord list instead.
type ChunkType string

const (
	ChunkTypeText        ChunkType = "text"
	ChunkTypeImagesIndex ChunkType = "images-index"
)

type DocChunk struct {
	Doc            Document
	ChunkId        string    `json:"chunk_id"` //deterministic content hash, re-ingest hits the same id
	Chunk          string    `json:"content"`
	PageNum        int       `json:"page_num"`
	ChunkPageOrder int       `json:"chunk_order"`
	Type           ChunkType `json:"type"`
	Images         string    `json:"images,omitempty"` //serialized []ImageRecord, images-index chunk only
}

// ChunkMetadata is the payload copied onto a match by the index. Absent
// fields come back as zero values, never as implicit nils.
type ChunkMetadata struct {
	Text       string    `json:"text"`
	PageNumber int       `json:"pageNumber"`
	Type       ChunkType `json:"type"`
	Images     string    `json:"images,omitempty"`
	FileKey    string    `json:"fileKey,omitempty"`
}

// Match is one similarity hit. Lives only for the duration of a query.
type Match struct {
	Id       string
	Score    float32
	Metadata ChunkMetadata
}

// ImageRecord describes one extractable visual artifact found on a page.
type ImageRecord struct {
	Page    int    `json:"page"`
	URL     string `json:"url"`
	OCRText string `json:"ocrText"`
	Type    string `json:"type"` //"image" | "table"
}

// AssembledContext is the bounded, page-tagged blob handed to the LLM.
// Built fresh per question, never persisted.
type AssembledContext struct {
	Text     string
	Pages    []int //unique, ascending
	Images   []ImageRecord
	Keywords []string
	Sources  []Source
}

// Source is a preview of where an answer came from, returned to the client.
type Source struct {
	FileKey    string `json:"fileKey"`
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// ChatRecord binds a chat session to the one document it runs over.
type ChatRecord struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user_id"`
	FileKey   string    `json:"file_key"`
	PdfName   string    `json:"pdf_name"`
	CreatedAt time.Time `json:"created_at"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
