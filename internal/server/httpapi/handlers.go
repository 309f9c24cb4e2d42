package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

// Request and response DTOs. Byte slices (the encryption salt) travel as
// base64 strings, the encoding/json default.

type createRequest struct {
	FileNames []string `json:"fileNames"`
	Duration  int      `json:"duration"`
	Password  string   `json:"password,omitempty"`
}

type uploadTaskDTO struct {
	FileName   string `json:"fileName"`
	ObjectName string `json:"objectName"`
	UploadURL  string `json:"uploadUrl"`
}

type createResponse struct {
	VaultCode      string          `json:"vaultCode"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	EncryptionSalt []byte          `json:"encryptionSalt,omitempty"`
	SasTokens      []uploadTaskDTO `json:"sasTokens"`
}

type confirmRequest struct {
	VaultCode string `json:"vaultCode"`
}

type confirmResultDTO struct {
	FileName string `json:"fileName"`
	Pending  bool   `json:"pending"`
	Error    string `json:"error,omitempty"`
}

type confirmResponse struct {
	VaultCode string             `json:"vaultCode"`
	Results   []confirmResultDTO `json:"results"`
}

type accessRequest struct {
	VaultCode   string `json:"vaultCode"`
	Password    string `json:"password,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

type fileDTO struct {
	FileName   string `json:"fileName"`
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
	Encrypted  bool   `json:"encrypted"`
}

type accessResponse struct {
	Files          []fileDTO `json:"files"`
	ExpiresAt      time.Time `json:"expiresAt"`
	Encrypted      bool      `json:"encrypted"`
	EncryptionSalt []byte    `json:"encryptionSalt,omitempty"`
}

type verifyResponse struct {
	OK               bool   `json:"ok"`
	PasswordRequired bool   `json:"passwordRequired"`
	AccessToken      string `json:"accessToken,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {

	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.vaults.Create(r.Context(), req.FileNames, req.Duration, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tasks := make([]uploadTaskDTO, 0, len(res.UploadTasks))
	for _, t := range res.UploadTasks {
		tasks = append(tasks, uploadTaskDTO{
			FileName:   t.FileName,
			ObjectName: t.ObjectName,
			UploadURL:  t.UploadURL,
		})
	}

	s.writeJSON(w, http.StatusCreated, createResponse{
		VaultCode:      res.VaultCode,
		ExpiresAt:      res.ExpiresAt,
		EncryptionSalt: res.EncryptionSalt,
		SasTokens:      tasks,
	})
}

func (s *Server) handleConfirmUpload(w http.ResponseWriter, r *http.Request) {

	var req confirmRequest
	if !s.decode(w, r, &req) {
		return
	}

	confs, err := s.vaults.ConfirmUpload(r.Context(), req.VaultCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results := make([]confirmResultDTO, 0, len(confs))
	for _, c := range confs {
		dto := confirmResultDTO{FileName: c.FileName, Pending: c.Pending}
		if c.Err != nil {
			dto.Error = c.Err.Error()
		}
		results = append(results, dto)
	}

	s.writeJSON(w, http.StatusOK, confirmResponse{VaultCode: req.VaultCode, Results: results})
}

func (s *Server) handleAccessFiles(w http.ResponseWriter, r *http.Request) {

	var req accessRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.vaults.AccessFiles(r.Context(), req.VaultCode, req.Password, req.AccessToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	files := make([]fileDTO, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, fileDTO{
			FileName:   f.FileName,
			ObjectName: f.ObjectName,
			URL:        f.URL,
			Encrypted:  f.Encrypted,
		})
	}

	s.writeJSON(w, http.StatusOK, accessResponse{
		Files:          files,
		ExpiresAt:      res.ExpiresAt,
		Encrypted:      res.Encrypted,
		EncryptionSalt: res.EncryptionSalt,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {

	code := chi.URLParam(r, "vaultCode")
	password := r.URL.Query().Get("password")
	if password == "" {
		password = r.Header.Get("X-Vault-Password")
	}

	res, err := s.vaults.Verify(r.Context(), code, password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, verifyResponse{
		OK:               res.OK,
		PasswordRequired: res.PasswordRequired,
		AccessToken:      res.AccessToken,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, common.ErrorInvalidInput)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
