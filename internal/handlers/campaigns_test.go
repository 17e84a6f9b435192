package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"grc-platform/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idOf(t *testing.T, v any) int {
	t.Helper()
	return int(v.(map[string]any)["ID"].(float64))
}

// setupCampaign goes through the analyst flow and returns the campaign
// id, its portal token and the question ids in template order.
func setupCampaign(t *testing.T, s *testServer, cookie *http.Cookie) (int, string, []int) {
	t.Helper()

	w := s.do(http.MethodPost, "/vendors", cookie, gin.H{"name": "Fornecedor Gama", "contact_email": "ti@gama.com.br"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vendorID := idOf(t, decode(t, w)["vendor"])

	w = s.do(http.MethodPost, "/templates", cookie, gin.H{
		"name": "Due diligence TI",
		"questions": []gin.H{
			{"key": "mfa", "label": "Usa MFA?", "type": "multiple_choice", "weight": 10,
				"options": []gin.H{{"value": "sim", "score": 10}, {"value": "parcial", "score": 4}, {"value": "nao", "score": 0}}},
			{"label": "Envie a política de segurança", "type": "file_upload", "weight": 5},
			{"label": "Já teve incidente grave?", "type": "text", "weight": 5, "is_ko": true, "ko_value": "sim"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tpl := decode(t, w)["template"].(map[string]any)
	var questionIDs []int
	for _, q := range tpl["questions"].([]any) {
		questionIDs = append(questionIDs, idOf(t, q))
	}
	require.Len(t, questionIDs, 3)

	w = s.do(http.MethodPost, "/campaigns", cookie, gin.H{"template_id": idOf(t, tpl), "vendor_id": vendorID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	campaign := decode(t, w)["campaign"].(map[string]any)
	assert.Equal(t, "pending", campaign["status"])
	return idOf(t, campaign), campaign["access_token"].(string), questionIDs
}

func TestCampaign_PortalSubmissionIsScored(t *testing.T) {
	s := newTestServer(t)
	s.addUser("analista", models.RoleAnalyst)
	cookie := s.login("analista")
	campaignID, token, qs := setupCampaign(t, s, cookie)

	w := s.do(http.MethodPost, "/portal/"+token+"/responses", nil, gin.H{
		"answers": []gin.H{
			{"question_id": qs[0], "answer_option": gin.H{"value": "parcial"}},
			{"question_id": qs[1], "answer_file_url": "https://files.example/politica.pdf"},
			{"question_id": qs[2], "answer_text": "não"},
		},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "received", body["status"])
	assert.NotContains(t, body, "score")

	w = s.do(http.MethodGet, fmt.Sprintf("/campaigns/%d", campaignID), cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	campaign := decode(t, w)["campaign"].(map[string]any)
	// 4 + 5 + 5 out of 20
	assert.EqualValues(t, 70, campaign["score"])
	assert.Equal(t, "medio", campaign["risk_classification"])
	assert.Equal(t, "scored", campaign["status"])
	assert.Len(t, campaign["responses"], 3)
}

func TestCampaign_ManualRescoreReportsKnockout(t *testing.T) {
	s := newTestServer(t)
	s.addUser("analista", models.RoleAnalyst)
	cookie := s.login("analista")
	campaignID, token, qs := setupCampaign(t, s, cookie)

	w := s.do(http.MethodPost, "/portal/"+token+"/responses", nil, gin.H{
		"answers": []gin.H{
			{"question_id": qs[0], "answer_option": gin.H{"value": "sim"}},
			{"question_id": qs[2], "answer_text": "Sim"},
		},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = s.do(http.MethodPost, fmt.Sprintf("/campaigns/%d/score", campaignID), cookie, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)["report"].(map[string]any)
	assert.EqualValues(t, 0, report["score"])
	assert.Equal(t, true, report["ko_triggered"])
	assert.Equal(t, "alto", report["risk_classification"])
	assert.Len(t, report["items"], 2)
}

func TestCampaign_PortalRejectsBadSubmissions(t *testing.T) {
	s := newTestServer(t)
	s.addUser("analista", models.RoleAnalyst)
	cookie := s.login("analista")
	_, token, qs := setupCampaign(t, s, cookie)

	w := s.do(http.MethodPost, "/portal/"+token+"/responses", nil, gin.H{
		"answers": []gin.H{{"question_id": qs[2], "answer_text": "não", "answer_file_url": "https://x"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/portal/not-a-token/responses", nil, gin.H{
		"answers": []gin.H{{"question_id": qs[2], "answer_text": "não"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/portal/"+token+"/responses", nil, gin.H{
		"answers": []gin.H{{"question_id": 9999, "answer_text": "não"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplates_Validation(t *testing.T) {
	s := newTestServer(t)
	s.addUser("analista", models.RoleAnalyst)
	cookie := s.login("analista")

	w := s.do(http.MethodPost, "/templates", cookie, gin.H{
		"name": "Sem opções", "questions": []gin.H{{"label": "Escolha", "type": "multiple_choice", "weight": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/templates", cookie, gin.H{
		"name": "Condição órfã", "questions": []gin.H{
			{"label": "Detalhe", "type": "text", "weight": 1, "conditional_on": "inexistente", "conditional_value": "sim"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/templates", cookie, gin.H{
		"name": "Tipo estranho", "questions": []gin.H{{"label": "?", "type": "audio", "weight": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
