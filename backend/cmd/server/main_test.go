package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
	"graphscope/backend/internal/services"
	apperrors "graphscope/backend/pkg/errors"
)

type fakeProvider struct{}

func (fakeProvider) FetchNeighborhood(ctx context.Context, nodeURI string) (*graph.Neighborhood, error) {
	if nodeURI == "kb://missing" {
		return nil, apperrors.NewNodeNotFound(nodeURI)
	}
	bag := graph.NewRelationshipBag()
	bag.Add("related_to", graph.Target{URI: "kb://other", Label: "Other", Kind: graph.KindConcept})
	return &graph.Neighborhood{
		Center:        graph.GraphNode{URI: nodeURI, Label: "Center", Kind: graph.KindConcept},
		Relationships: bag,
	}, nil
}

func testRouter() (*gin.Engine, *services.SessionManager) {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	sm := services.NewSessionManager(fakeProvider{}, time.Hour, log)

	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/sessions", func(c *gin.Context) {
		session := sm.Create()
		c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
	})
	router.POST("/api/sessions/:id/recenter", func(c *gin.Context) {
		session, ok := resolveSession(c, sm)
		if !ok {
			return
		}
		var req struct {
			NodeURI string `json:"node_uri" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		tree, err := session.Controller.Recenter(ctx, req.NodeURI)
		if err != nil {
			respondNavigationError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tree": tree, "inspector": session.Inspector.Rows()})
	})
	return router, sm
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestRecenterEndpoint_Flow(t *testing.T) {
	router, _ := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sessions", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]string
	json.Unmarshal(w.Body.Bytes(), &created)
	sessionID := created["session_id"]
	assert.NotEmpty(t, sessionID)

	body := bytes.NewBufferString(`{"node_uri": "kb://nn"}`)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/sessions/"+sessionID+"/recenter", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Tree struct {
			ID       string `json:"id"`
			Children []struct {
				ID string `json:"id"`
			} `json:"children"`
		} `json:"tree"`
		Inspector []struct {
			Label string `json:"label"`
		} `json:"inspector"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "kb://nn", response.Tree.ID)
	assert.Len(t, response.Tree.Children, 1)
	assert.Len(t, response.Inspector, 2)
}

func TestRecenterEndpoint_InvalidRequest(t *testing.T) {
	router, sm := testRouter()
	session := sm.Create()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sessions/"+session.ID+"/recenter", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecenterEndpoint_UnknownSession(t *testing.T) {
	router, _ := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sessions/nope/recenter", bytes.NewBufferString(`{"node_uri": "kb://nn"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecenterEndpoint_NodeNotFound(t *testing.T) {
	router, sm := testRouter()
	session := sm.Create()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sessions/"+session.ID+"/recenter", bytes.NewBufferString(`{"node_uri": "kb://missing"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
