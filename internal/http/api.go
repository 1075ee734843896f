package http

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"caselaw-kenya/internal/auth"
	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/service"
	"caselaw-kenya/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	cases     service.CaseService
	content   service.ContentService
	tokens    *auth.TokenService
	documents storage.Service
	bucket    string
	keyPrefix string
	logger    *logrus.Logger
}

func NewHandler(
	users service.UserService,
	cases service.CaseService,
	content service.ContentService,
	tokens *auth.TokenService,
	documents storage.Service,
	bucket, keyPrefix string,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:     users,
		cases:     cases,
		content:   content,
		tokens:    tokens,
		documents: documents,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)

		adminCases := authGroup.Group("/cases", RequireAuth(h.tokens), RequireRoles(domain.RoleAdmin))
		adminCases.POST("", h.createCase)
		adminCases.PUT("/:id", h.updateCase)
		adminCases.DELETE("/:id", h.deleteCase)
		adminCases.POST("/:id/documents", h.uploadDocument)
	}

	cases := router.Group("/cases")
	{
		cases.GET("", h.listCases)
		cases.GET("/search", h.searchCases)
		cases.GET("/county/:county", h.listCasesByCounty)
		cases.GET("/:id", h.getCase)
		cases.GET("/:id/documents", h.listDocuments)
		cases.GET("/:id/documents/url", h.documentURL)
	}

	protected := router.Group("", RequireAuth(h.tokens))
	{
		protected.GET("/profile", h.getProfile)
		protected.PUT("/profile", h.updateProfile)
		protected.POST("/history", h.recordHistory)
		protected.GET("/history", h.listHistory)
	}

	router.GET("/constitution", h.listConstitution)
	router.GET("/constitution/:id", h.getConstitutionArticle)
	router.POST("/contact", h.submitContact)

	api := router.Group("/api")
	{
		api.GET("/cases/count", h.countCases)
		api.GET("/about/mission", aboutPage("Our Mission", aboutMission))
		api.GET("/about/vision", aboutPage("Our Vision", aboutVision))
		api.GET("/about/team", aboutPage("Our Team", aboutTeam))
		api.GET("/about/technology", aboutPage("Our Technology", aboutTechnology))
		api.GET("/about/team-members", h.listTeamMembers)
	}
}

// handleError maps service errors onto the response taxonomy. Store failures
// are logged and surfaced as a 500.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrCaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password, domain.Role(req.Role)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (h *Handler) getProfile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied: no user information found"})
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	})
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied: no user information found"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), claims.UserID, req.Username, req.Password); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func (h *Handler) searchCases(c *gin.Context) {
	filter := domain.SearchFilter{
		Query:     c.Query("query"),
		CaseTitle: c.Query("caseTitle"),
		Judge:     c.Query("judge"),
		Date:      c.Query("date"),
		Keywords:  c.Query("keywords"),
		Region:    c.Query("region"),
		County:    c.Query("county"),
	}

	cases, err := h.cases.Search(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, casesToResponse(cases))
}

func (h *Handler) listCases(c *gin.Context) {
	cases, err := h.cases.ListCases(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, casesToResponse(cases))
}

func (h *Handler) listCasesByCounty(c *gin.Context) {
	cases, err := h.cases.ListByCounty(c.Request.Context(), c.Param("county"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, casesToResponse(cases))
}

func (h *Handler) countCases(c *gin.Context) {
	county := c.Query("county")
	if county == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "county is required"})
		return
	}

	count, err := h.cases.CountByCounty(c.Request.Context(), county)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) getCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := h.cases.GetCase(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, caseToResponse(*record))
}

type caseRequest struct {
	Title          *string `json:"case_title"`
	CaseNumber     *string `json:"case_number"`
	Court          *string `json:"court_name"`
	Judge          *string `json:"judge"`
	JudgeID        *int64  `json:"judge_id"`
	LegalTopicID   *int64  `json:"legal_topic_id"`
	DateOfJudgment *string `json:"date_decided"`
	Summary        *string `json:"summary"`
	FullText       *string `json:"full_text"`
	Region         *string `json:"region"`
	County         *string `json:"county"`
	Description    *string `json:"description"`
	DateFiled      *string `json:"date_filed"`
}

func (r caseRequest) toInput() service.CaseInput {
	return service.CaseInput{
		Title:          r.Title,
		CaseNumber:     r.CaseNumber,
		Court:          r.Court,
		Judge:          r.Judge,
		JudgeID:        r.JudgeID,
		LegalTopicID:   r.LegalTopicID,
		DateOfJudgment: r.DateOfJudgment,
		Summary:        r.Summary,
		FullText:       r.FullText,
		Region:         r.Region,
		County:         r.County,
		Description:    r.Description,
		DateFiled:      r.DateFiled,
	}
}

func (h *Handler) createCase(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.cases.CreateCase(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Case added successfully", "caseId": record.ID})
}

func (h *Handler) updateCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cases.UpdateCase(c.Request.Context(), id, req.toInput()); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Case updated successfully"})
}

func (h *Handler) deleteCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.cases.DeleteCase(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	// documents for a removed case are unreachable, drop them too
	if h.documents != nil && h.bucket != "" {
		if err := h.documents.DeletePrefix(c.Request.Context(), h.bucket, h.casePrefix(id)+"/"); err != nil {
			h.logger.WithError(err).Warn("delete case documents")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Case deleted successfully"})
}

type historyRequest struct {
	CaseID int64 `json:"caseId" binding:"required"`
}

func (h *Handler) recordHistory(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied: no user information found"})
		return
	}

	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "caseId is required"})
		return
	}

	if err := h.cases.RecordView(c.Request.Context(), claims.UserID, req.CaseID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Case view logged"})
}

func (h *Handler) listHistory(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied: no user information found"})
		return
	}

	entries, err := h.cases.RecentHistory(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]historyResponse, len(entries))
	for i, entry := range entries {
		resp[i] = historyResponse{
			ID:         entry.CaseID,
			Title:      entry.CaseTitle,
			CaseNumber: entry.CaseNumber,
			County:     entry.County,
			ViewedAt:   entry.ViewedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listConstitution(c *gin.Context) {
	articles, err := h.content.Constitution(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]constitutionResponse, len(articles))
	for i, a := range articles {
		resp[i] = articleToResponse(a, false)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getConstitutionArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	article, err := h.content.ConstitutionArticle(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleToResponse(*article, true))
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}

	msg, err := h.content.SubmitContact(c.Request.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message received successfully", "reference": msg.Reference})
}

func (h *Handler) listTeamMembers(c *gin.Context) {
	members, err := h.content.TeamMembers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]teamMemberResponse, len(members))
	for i, m := range members {
		resp[i] = teamMemberResponse{
			Name:  m.Name,
			Role:  m.Role,
			Bio:   m.Bio,
			Image: m.Image,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) uploadDocument(c *gin.Context) {
	if h.documents == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.cases.GetCase(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded file"})
		return
	}
	defer file.Close()

	name := path.Base(fileHeader.Filename)
	key := path.Join(h.casePrefix(id), fmt.Sprintf("%s-%s", uuid.NewString()[:8], name))

	location, err := h.documents.Upload(c.Request.Context(), h.bucket, key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Document uploaded successfully", "key": key, "location": location})
}

func (h *Handler) listDocuments(c *gin.Context) {
	if h.documents == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	objects, err := h.documents.ListObjects(c.Request.Context(), h.bucket, h.casePrefix(id)+"/")
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]documentResponse, len(objects))
	for i, obj := range objects {
		resp[i] = documentResponse{
			Key:  obj.Key,
			Size: obj.Size,
		}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) documentURL(c *gin.Context) {
	if h.documents == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	key := c.Query("key")
	// keys must stay inside this case's prefix
	if key == "" || key != path.Clean(key) || !strings.HasPrefix(key, h.casePrefix(id)+"/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document key"})
		return
	}

	url, err := h.documents.PresignGet(c.Request.Context(), h.bucket, key, 15*time.Minute)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) casePrefix(caseID int64) string {
	return path.Join(strings.Trim(h.keyPrefix, "/"), strconv.FormatInt(caseID, 10))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

type CaseResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	CaseNumber     string `json:"case_number"`
	County         string `json:"county"`
	Court          string `json:"court"`
	Judge          string `json:"judge"`
	JudgeID        *int64 `json:"judge_id,omitempty"`
	LegalTopicID   *int64 `json:"legal_topic_id,omitempty"`
	DateOfJudgment string `json:"date_of_judgment"`
	Summary        string `json:"summary"`
	FullText       string `json:"full_text"`
	Region         string `json:"region"`
	Description    string `json:"description"`
	DateFiled      string `json:"date_filed"`
}

type historyResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CaseNumber string `json:"case_number"`
	County     string `json:"county"`
	ViewedAt   string `json:"viewed_at"`
}

type constitutionResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	ArticleNumber string `json:"article_number"`
	Chapter       string `json:"chapter"`
	Part          string `json:"part"`
	Text          string `json:"text"`
	Details       string `json:"details,omitempty"`
}

type teamMemberResponse struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
}

type documentResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func casesToResponse(cases []domain.Case) []CaseResponse {
	resp := make([]CaseResponse, len(cases))
	for i := range cases {
		resp[i] = caseToResponse(cases[i])
	}
	return resp
}

func caseToResponse(c domain.Case) CaseResponse {
	return CaseResponse{
		ID:             c.ID,
		Title:          c.Title,
		CaseNumber:     c.CaseNumber,
		County:         c.County,
		Court:          c.Court,
		Judge:          c.Judge,
		JudgeID:        c.JudgeID,
		LegalTopicID:   c.LegalTopicID,
		DateOfJudgment: c.DateOfJudgment,
		Summary:        c.Summary,
		FullText:       c.FullText,
		Region:         c.Region,
		Description:    c.Description,
		DateFiled:      c.DateFiled,
	}
}

func articleToResponse(a domain.ConstitutionArticle, withDetails bool) constitutionResponse {
	resp := constitutionResponse{
		ID:            a.ID,
		Title:         a.Title,
		ArticleNumber: a.ArticleNumber,
		Chapter:       a.Chapter,
		Part:          a.Part,
		Text:          a.Text,
	}
	if withDetails {
		resp.Details = a.Details
	}
	return resp
}

func aboutPage(title, content string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"title": title, "content": content})
	}
}

const (
	aboutMission = "At Case Law Kenya, our mission is to empower individuals and legal professionals by providing seamless access to comprehensive case law information across Kenya's counties. We aim to democratize legal knowledge, ensuring that everyone, from law students to seasoned advocates, can easily access, understand, and utilize case law to uphold justice and protect rights."

	aboutVision = "We envision a future where legal knowledge is accessible to all, bridging the gap between complex legal systems and the people who need to navigate them. Our goal is a platform that serves as a repository of case law and as a tool for education, advocacy, and reform, promoting transparency in the judicial system."

	aboutTeam = "Our team is a diverse group of legal experts, technologists, and researchers dedicated to making legal information accessible. Led by a seasoned lawyer, the team includes software developers, legal researchers who ensure the accuracy of our data, and community advocates."

	aboutTechnology = "Case Law Kenya is built on a fast, reliable backend with search functionality that supports both simple and advanced queries, so users can find the exact information they need. Interactive county maps let users explore cases by region."
)
