// Package api provides the REST API server for rtttl2midi
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/rtttl2midi/pkg/converter"
	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// @title RTTTL2MIDI API
// @version 1.0
// @description API for parsing, encoding and converting RTTTL ring tones
// @host localhost:8080
// @BasePath /api/v1

// maxUploadSize limits request bodies and uploaded files
const maxUploadSize = 1 << 20

// Config holds the server settings
type Config struct {
	Port int
	Mode string // gin mode: debug, release or test
}

// DefaultConfig returns the settings used by StartServer
func DefaultConfig() Config {
	return Config{Port: 8080, Mode: gin.DebugMode}
}

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	cfg := DefaultConfig()
	cfg.Port = port
	return Run(cfg)
}

// Run starts the API server with the given settings
func Run(cfg Config) error {
	return NewRouter(cfg).Run(fmt.Sprintf(":%d", cfg.Port))
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.Default()

	r.Use(requestIDMiddleware())
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.GET("/notes", listNotes)
		v1.POST("/parse", handleParse)
		v1.POST("/encode", handleEncode)
		v1.POST("/convert/rtttl2midi", handleRTTTLToMIDI)
		v1.POST("/convert/midi2rtttl", handleMIDIToRTTTL)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rtttl2midi",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{string(converter.FormatRTTTL), string(converter.FormatMIDI)},
		"conversions": converter.GetSupportedConversions(),
	})
}

// listNotes godoc
// @Summary List the note table
// @Description Returns every note from C0 to B8 with its MIDI semitone and frequency
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]NoteResponse
// @Router /api/v1/notes [get]
func listNotes(c *gin.Context) {
	notes := rtttl.Notes()
	out := make([]NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = NoteResponse{Name: n.String(), Semitone: n.Semitone, Hz: n.Hz()}
	}
	c.JSON(http.StatusOK, gin.H{"notes": out})
}

// handleParse godoc
// @Summary Parse an RTTTL string
// @Description Parses an RTTTL string and returns the tone sequence
// @Tags rtttl
// @Accept json
// @Produce json
// @Param request body RTTTLRequest true "RTTTL string"
// @Success 200 {object} SequenceJSON
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/parse [post]
func handleParse(c *gin.Context) {
	var req RTTTLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	seq, err := rtttl.Parse(req.RTTTL)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, NewSequenceJSON(seq))
}

// handleEncode godoc
// @Summary Encode a tone sequence
// @Description Encodes a tone sequence as a canonical RTTTL string
// @Tags rtttl
// @Accept json
// @Produce json
// @Param request body SequenceJSON true "Tone sequence"
// @Success 200 {object} RTTTLResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/encode [post]
func handleEncode(c *gin.Context) {
	var req SequenceJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	seq, err := req.ToSequence()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	str, err := rtttl.Encode(seq)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusOK, RTTTLResponse{RTTTL: str})
}

// handleRTTTLToMIDI godoc
// @Summary Convert RTTTL to MIDI
// @Description Upload an RTTTL file (or send the text as the body) and receive a MIDI file
// @Tags convert
// @Accept multipart/form-data,text/plain
// @Produce audio/midi
// @Param file formData file false "RTTTL file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/convert/rtttl2midi [post]
func handleRTTTLToMIDI(c *gin.Context) {
	handleConversion(c, converter.FormatRTTTL, converter.FormatMIDI)
}

// handleMIDIToRTTTL godoc
// @Summary Convert MIDI to RTTTL
// @Description Upload a MIDI file and receive its melody as RTTTL text
// @Tags convert
// @Accept multipart/form-data
// @Produce text/plain
// @Param file formData file true "MIDI file to convert"
// @Success 200 {string} string
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/convert/midi2rtttl [post]
func handleMIDIToRTTTL(c *gin.Context) {
	handleConversion(c, converter.FormatMIDI, converter.FormatRTTTL)
}

func handleConversion(c *gin.Context, fromFormat, toFormat converter.Format) {
	data, filename, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	conv := converter.New()
	result, err := conv.Convert(data, fromFormat, toFormat)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var contentType, outputExt string
	switch toFormat {
	case converter.FormatMIDI:
		contentType, outputExt = "audio/midi", ".mid"
	default:
		contentType, outputExt = "text/plain; charset=utf-8", ".rtttl"
	}

	outputName := "converted" + outputExt
	if i := strings.LastIndex(filename, "."); i > 0 {
		outputName = filename[:i] + outputExt
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, contentType, result)
}

// readUpload returns the "file" form field, or the raw body when the request is not multipart
func readUpload(c *gin.Context) ([]byte, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			return nil, "", errors.New("no file uploaded")
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("failed to read file")
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, "", errors.New("failed to read request body")
	}
	if len(data) == 0 {
		return nil, "", errors.New("no file uploaded")
	}
	return data, "", nil
}

func respondError(c *gin.Context, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var perr *rtttl.ParseError
	if errors.As(err, &perr) {
		resp.Token = perr.Token
		offset := perr.Offset
		resp.Offset = &offset
	}
	c.JSON(status, resp)
}
