package testutil

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskdeck/internal/service"
)

// OTPCode is the only one-time code FakeAPI accepts.
const OTPCode = "1234"

// Call is a request FakeAPI received.
type Call struct {
	Method        string
	Path          string
	Authorization string
}

type failure struct {
	status  int
	code    string
	message string
}

type fakeAccount struct {
	account  service.Account
	password string
}

// FakeAPI is an in-memory HTTP API served by gin on an httptest server.
type FakeAPI struct {
	mu       sync.Mutex
	server   *httptest.Server
	accounts map[string]*fakeAccount
	tokens   map[string]string // token -> account id
	todos    []service.Todo
	tasks    []service.Task
	comments []service.Comment
	calls    []Call
	failures map[string]failure // "METHOD /route/:pattern" -> failure
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		accounts: make(map[string]*fakeAccount),
		tokens:   make(map[string]string),
		failures: make(map[string]failure),
	}
	f.server = httptest.NewServer(f.router())
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the configured host, without the /api suffix.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// AddAccount registers an account that can log in with password.
func (f *FakeAPI) AddAccount(account service.Account, password string) service.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	f.accounts[account.ID] = &fakeAccount{account: account, password: password}
	return account
}

// IssueToken returns a valid access token for accountID.
func (f *FakeAPI) IssueToken(accountID string) service.AccessToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked(accountID)
}

// AddTodo stores a todo as-is.
func (f *FakeAPI) AddTodo(todo service.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, todo)
}

// AddTask stores a task as-is.
func (f *FakeAPI) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// Fail makes every request matching method and route pattern (for example
// "GET", "/api/accounts/:id") answer with status and an error body.
func (f *FakeAPI) Fail(method, route string, status int, code, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+route] = failure{status: status, code: code, message: message}
}

// Calls returns the requests received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Todos returns the stored todos.
func (f *FakeAPI) Todos() []service.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Todo(nil), f.todos...)
}

// Tasks returns the stored tasks.
func (f *FakeAPI) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

func (f *FakeAPI) issueLocked(accountID string) service.AccessToken {
	token := uuid.NewString()
	f.tokens[token] = accountID
	return service.AccessToken{
		AccountID: accountID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
	}
}

func (f *FakeAPI) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), f.record())

	api := r.Group("/api")
	api.POST("/accounts", f.createAccount)
	api.POST("/access-tokens", f.createAccessToken)
	api.POST("/password-reset-tokens", f.createResetToken)
	api.PATCH("/accounts/:id", f.resetPassword)

	authed := api.Group("", f.requireToken())
	authed.GET("/accounts/:id", f.getAccount)
	authed.DELETE("/accounts/:id", f.deleteAccount)
	authed.GET("/todos", f.listTodos)
	authed.POST("/todos", f.createTodo)
	authed.PATCH("/todos/:id", f.updateTodo)
	authed.DELETE("/todos/:id", f.deleteTodo)
	authed.GET("/tasks", f.listTasks)
	authed.POST("/tasks", f.createTask)
	authed.PUT("/tasks/:id", f.editTask)
	authed.DELETE("/tasks/:id", f.deleteTask)
	authed.POST("/comments", f.createComment)
	authed.GET("/comments/:id", f.listComments)
	return r
}

func (f *FakeAPI) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		f.calls = append(f.calls, Call{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Authorization: c.GetHeader("Authorization"),
		})
		fail, ok := f.failures[c.Request.Method+" "+c.FullPath()]
		f.mu.Unlock()

		if ok {
			c.AbortWithStatusJSON(fail.status, gin.H{"code": fail.code, "message": fail.message})
			return
		}
		c.Next()
	}
}

func (f *FakeAPI) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_03", "message": "Authorization header is missing."})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_04", "message": "Invalid authorization header."})
			return
		}
		f.mu.Lock()
		accountID, ok := f.tokens[strings.TrimPrefix(header, "Bearer ")]
		f.mu.Unlock()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_05", "message": "Access token is invalid."})
			return
		}
		c.Set("account_id", accountID)
		c.Next()
	}
}

func (f *FakeAPI) createAccount(c *gin.Context) {
	var in struct {
		service.SignupInput
		PhoneNumber *service.PhoneNumber `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "ACCOUNT_ERR_03", "message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if in.PhoneNumber != nil {
		for _, a := range f.accounts {
			if a.account.PhoneNumber != nil && *a.account.PhoneNumber == *in.PhoneNumber {
				c.JSON(http.StatusOK, a.account)
				return
			}
		}
		account := service.Account{ID: uuid.NewString(), PhoneNumber: in.PhoneNumber}
		f.accounts[account.ID] = &fakeAccount{account: account}
		c.JSON(http.StatusCreated, account)
		return
	}

	if in.Username == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "ACCOUNT_ERR_03", "message": "username and password are required"})
		return
	}
	for _, a := range f.accounts {
		if a.account.Username == in.Username {
			c.JSON(http.StatusConflict, gin.H{"code": "ACCOUNT_ERR_01", "message": "An account with this username already exists."})
			return
		}
	}
	account := service.Account{ID: uuid.NewString(), FirstName: in.FirstName, LastName: in.LastName, Username: in.Username}
	f.accounts[account.ID] = &fakeAccount{account: account, password: in.Password}
	c.JSON(http.StatusCreated, account)
}

func (f *FakeAPI) createAccessToken(c *gin.Context) {
	var in struct {
		Username    string               `json:"username"`
		Password    string               `json:"password"`
		PhoneNumber *service.PhoneNumber `json:"phone_number"`
		OTPCode     string               `json:"otp_code"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "ACCESS_TOKEN_ERR_01", "message": err.Error()})
		return
	}
	if in.PhoneNumber == nil && in.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "ACCESS_TOKEN_ERR_01", "message": "username is required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for id, a := range f.accounts {
		if in.PhoneNumber != nil {
			if a.account.PhoneNumber == nil || *a.account.PhoneNumber != *in.PhoneNumber {
				continue
			}
			if in.OTPCode != OTPCode {
				c.JSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_01", "message": "Please provide a valid OTP code."})
				return
			}
		} else if a.account.Username != in.Username || a.password != in.Password {
			continue
		}
		token := f.issueLocked(id)
		c.JSON(http.StatusCreated, gin.H{
			"account_id": token.AccountID,
			"token":      token.Token,
			"expires_at": strconv.FormatInt(token.ExpiresAt.Unix(), 10),
		})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_01", "message": "Invalid username or password."})
}

func (f *FakeAPI) createResetToken(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PASSWORD_RESET_TOKEN_ERR_01", "message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for id, a := range f.accounts {
		if a.account.Username == in.Username {
			c.JSON(http.StatusCreated, service.PasswordResetToken{
				ID:        uuid.NewString(),
				Account:   id,
				ExpiresAt: time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"code": "ACCOUNT_ERR_02", "message": "Account not found."})
}

func (f *FakeAPI) resetPassword(c *gin.Context) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Token == "" || in.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PASSWORD_RESET_TOKEN_ERR_02", "message": "token and new_password are required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.accounts[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": "ACCOUNT_ERR_02", "message": "Account not found."})
		return
	}
	a.password = in.NewPassword
	c.JSON(http.StatusOK, a.account)
}

func (f *FakeAPI) getAccount(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c.Param("id") != c.GetString("account_id") {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_01", "message": "Unauthorized access."})
		return
	}
	a, ok := f.accounts[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": "ACCOUNT_ERR_02", "message": "Account not found."})
		return
	}
	c.JSON(http.StatusOK, a.account)
}

func (f *FakeAPI) deleteAccount(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := c.Param("id")
	if id != c.GetString("account_id") {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "ACCESS_TOKEN_ERR_01", "message": "Unauthorized access."})
		return
	}
	delete(f.accounts, id)
	for token, owner := range f.tokens {
		if owner == id {
			delete(f.tokens, token)
		}
	}
	c.Status(http.StatusNoContent)
}

func (f *FakeAPI) listTodos(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owner := c.GetString("account_id")
	status := service.TodoStatus(c.Query("status"))
	overdue := c.Query("overdue") == "true"
	today := time.Now().UTC().Truncate(24 * time.Hour)

	out := []service.Todo{}
	for _, todo := range f.todos {
		if todo.AccountID != owner {
			continue
		}
		if status != "" && todo.Status != status {
			continue
		}
		if overdue && (todo.Done() || !todo.DueDate.Before(today)) {
			continue
		}
		out = append(out, todo)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate.Time) })
	c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) createTodo(c *gin.Context) {
	var in service.TodoInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "TODO_ERR_01", "message": "title is required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	todo := service.Todo{
		ID:          uuid.NewString(),
		AccountID:   c.GetString("account_id"),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     in.DueDate,
		Status:      service.StatusToDo,
		CreatedAt:   &now,
	}
	f.todos = append(f.todos, todo)
	c.JSON(http.StatusCreated, todo)
}

func (f *FakeAPI) updateTodo(c *gin.Context) {
	var in service.TodoUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "TODO_ERR_01", "message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.todoIndexLocked(c)
	if i < 0 {
		return
	}
	todo := &f.todos[i]
	if in.Title != nil {
		todo.Title = *in.Title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Type != nil {
		todo.Type = *in.Type
	}
	if in.DueDate != nil {
		todo.DueDate = *in.DueDate
	}
	if in.Status != nil {
		todo.Status = *in.Status
	}
	c.JSON(http.StatusOK, *todo)
}

func (f *FakeAPI) deleteTodo(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.todoIndexLocked(c)
	if i < 0 {
		return
	}
	f.todos = append(f.todos[:i], f.todos[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (f *FakeAPI) todoIndexLocked(c *gin.Context) int {
	for i, todo := range f.todos {
		if todo.ID == c.Param("id") && todo.AccountID == c.GetString("account_id") {
			return i
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"code": "TODO_ERR_02", "message": "Todo not found."})
	return -1
}

func (f *FakeAPI) listTasks(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []service.Task{}
	for _, task := range f.tasks {
		if task.AccountID == c.GetString("account_id") {
			out = append(out, task)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) createTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "TASK_ERR_01", "message": "title is required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	task := service.Task{
		ID:          uuid.NewString(),
		AccountID:   c.GetString("account_id"),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     in.DueDate,
	}
	f.tasks = append(f.tasks, task)
	c.JSON(http.StatusCreated, task)
}

func (f *FakeAPI) editTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "TASK_ERR_01", "message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.taskIndexLocked(c)
	if i < 0 {
		return
	}
	task := &f.tasks[i]
	task.Title = in.Title
	task.Description = in.Description
	task.Type = in.Type
	task.DueDate = in.DueDate
	c.JSON(http.StatusOK, *task)
}

func (f *FakeAPI) deleteTask(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.taskIndexLocked(c)
	if i < 0 {
		return
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (f *FakeAPI) taskIndexLocked(c *gin.Context) int {
	for i, task := range f.tasks {
		if task.ID == c.Param("id") && task.AccountID == c.GetString("account_id") {
			return i
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"code": "TASK_ERR_02", "message": "Task not found."})
	return -1
}

func (f *FakeAPI) createComment(c *gin.Context) {
	var in service.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil || in.TaskID == "" || in.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "COMMENT_ERR_01", "message": "task_id and comment are required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	comment := service.Comment{
		ID:        uuid.NewString(),
		TaskID:    in.TaskID,
		AccountID: c.GetString("account_id"),
		Comment:   in.Comment,
	}
	f.comments = append(f.comments, comment)
	c.JSON(http.StatusCreated, comment)
}

func (f *FakeAPI) listComments(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []service.Comment{}
	for _, comment := range f.comments {
		if comment.TaskID == c.Param("id") {
			out = append(out, comment)
		}
	}
	c.JSON(http.StatusOK, out)
}
