package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internals/configs"
	"library_backend/internals/databases/databasetest"
	borrowDto "library_backend/internals/features/borrowing/dto"
	borrowModel "library_backend/internals/features/borrowing/model"
	catalogDto "library_backend/internals/features/catalog/dto"
	catalogModel "library_backend/internals/features/catalog/model"
	authService "library_backend/internals/features/users/auth/service"
)

const testPassword = "Shelf-Reader-2024"

type testEnv struct {
	t   *testing.T
	app *fiber.App
	svc *Services
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &configs.Config{
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		SessionIdleTimeout: time.Minute,
		SessionCookieName:  "library_session",
		LoanPeriodDays:     14,
	}
	svc := NewServices(databasetest.Open(t), cfg)
	return &testEnv{t: t, app: NewApp(svc, cfg), svc: svc}
}

func (e *testEnv) user(name string, staff bool) {
	e.t.Helper()
	_, err := e.svc.Auth.Register(context.Background(), authService.RegisterInput{
		UserName: name, Password1: testPassword, Password2: testPassword, Staff: staff,
	})
	require.NoError(e.t, err)
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	return resp
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *http.Response {
	return e.do(httptest.NewRequest(fiber.MethodGet, path, nil), cookies...)
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return e.do(req, cookies...)
}

func (e *testEnv) api(method, path, token string, body any) *http.Response {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return e.do(req)
}

// login signs in through the HTML form and returns the session cookie.
func (e *testEnv) login(name string) *http.Cookie {
	e.t.Helper()
	resp := e.postForm("/login", url.Values{"username": {name}, "password": {testPassword}})
	require.Equal(e.t, fiber.StatusFound, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		if ck.Name == "library_session" {
			return ck
		}
	}
	e.t.Fatal("no session cookie after login")
	return nil
}

func (e *testEnv) token(name string) string {
	e.t.Helper()
	resp := e.api(fiber.MethodPost, "/api/auth/token", "", map[string]string{"username": name, "password": testPassword})
	require.Equal(e.t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(e.t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(e.t, out.Data.AccessToken)
	return out.Data.AccessToken
}

func (e *testEnv) book(isbn string) catalogModel.BookModel {
	e.t.Helper()
	b := &catalogModel.BookModel{Title: "Book " + isbn, ISBN: isbn}
	require.NoError(e.t, e.svc.Catalog.Create(context.Background(), b, nil, nil))
	return *b
}

func (e *testEnv) reloadBook(id uint) catalogModel.BookModel {
	e.t.Helper()
	b, err := e.svc.Catalog.Get(context.Background(), id)
	require.NoError(e.t, err)
	return *b
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func idPath(format string, id uint) string {
	return strings.Replace(format, ":id", strconv.FormatUint(uint64(id), 10), 1)
}

/* ===== Probes and public pages ===== */

func TestHealth(t *testing.T) {
	e := newEnv(t)
	resp := e.get("/health")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"status":"OK"`)
}

func TestAnonymousAccess(t *testing.T) {
	e := newEnv(t)
	e.book("9780000000001")

	assert.Equal(t, fiber.StatusOK, e.get("/").StatusCode)

	resp := e.get("/catalog")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Book 9780000000001")

	resp = e.get("/borrow_requests")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fborrow_requests", resp.Header.Get(fiber.HeaderLocation))

	resp = e.get("/add_book")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = e.get("/api/books")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSearchAndMissingBook(t *testing.T) {
	e := newEnv(t)
	e.book("9780000000001")
	other := &catalogModel.BookModel{Title: "Another Story", ISBN: "9780000000002"}
	require.NoError(t, e.svc.Catalog.Create(context.Background(), other, nil, nil))

	resp := e.get("/search?query=story")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Another Story")
	assert.NotContains(t, html, "Book 9780000000001")

	resp = e.get("/book/9999")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "404")
}

/* ===== Accounts ===== */

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	resp := e.postForm("/register", url.Values{
		"username": {"reader"}, "password1": {testPassword}, "password2": {"different-one"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "didn")

	resp = e.postForm("/register", url.Values{
		"username": {"reader"}, "password1": {testPassword}, "password2": {testPassword},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/catalog", resp.Header.Get(fiber.HeaderLocation))

	resp = e.postForm("/login", url.Values{"username": {"reader"}, "password": {"wrong"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Please enter a correct username and password.")

	resp = e.postForm("/login", url.Values{"username": {"reader"}, "password": {testPassword}, "next": {"/borrow_requests"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/borrow_requests", resp.Header.Get(fiber.HeaderLocation))

	ck := e.login("reader")
	resp = e.get("/borrow_requests", ck)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Signed in as reader")
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)

	resp := e.postForm("/login", url.Values{"username": {"reader"}, "password": {testPassword}, "next": {"//evil.example"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/catalog", resp.Header.Get(fiber.HeaderLocation))
}

func TestSessionExpiresAfterIdleTimeout(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	ck := e.login("reader")

	require.Equal(t, fiber.StatusOK, e.get("/borrow_requests", ck).StatusCode)

	e.svc.Sessions.Now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	resp := e.get("/borrow_requests", ck)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderLocation), "/login"))
}

func TestLogoutEndsSession(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	ck := e.login("reader")

	resp := e.postForm("/logout", url.Values{}, ck)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Log in")

	assert.Equal(t, fiber.StatusFound, e.get("/borrow_requests", ck).StatusCode)
}

/* ===== Book management ===== */

func TestMemberCannotManageBooks(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	ck := e.login("reader")

	resp := e.get("/add_book", ck)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body(t, resp), "403")
}

func TestStaffAddsEditsAndDeletesBook(t *testing.T) {
	e := newEnv(t)
	e.user("librarian", true)
	ck := e.login("librarian")

	author := &catalogModel.AuthorModel{Name: "Ursula"}
	require.NoError(t, e.svc.Catalog.CreateAuthor(context.Background(), author))

	resp := e.get("/add_book", ck)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Ursula")

	form := url.Values{
		"title":          {"The Dispossessed"},
		"isbn":           {"9780061054884"},
		"published_date": {"1974-05-01"},
		"authors":        {strconv.FormatUint(uint64(author.ID), 10)},
	}
	resp = e.postForm("/add_book", form, ck)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/catalog", resp.Header.Get(fiber.HeaderLocation))

	books, _, err := e.svc.Catalog.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, books, 1)
	book := books[0]
	assert.True(t, book.Available)
	assert.Equal(t, []uint{author.ID}, book.AuthorIDs())

	// same ISBN again
	resp = e.postForm("/add_book", form, ck)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Book with this Isbn already exists.")

	form.Set("title", "The Dispossessed (reissue)")
	resp = e.postForm(idPath("/edit_book/:id", book.ID), form, ck)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, idPath("/book/:id", book.ID), resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, "The Dispossessed (reissue)", e.reloadBook(book.ID).Title)

	resp = e.postForm(idPath("/delete_book/:id", book.ID), url.Values{}, ck)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/catalog", resp.Header.Get(fiber.HeaderLocation))

	_, err = e.svc.Catalog.Get(context.Background(), book.ID)
	assert.Error(t, err)
}

func TestAddBookShowsFieldErrors(t *testing.T) {
	e := newEnv(t)
	e.user("librarian", true)
	ck := e.login("librarian")

	resp := e.postForm("/add_book", url.Values{"title": {""}, "isbn": {"123"}}, ck)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "This field is required.")
}

/* ===== Borrowing ===== */

func TestBorrowLifecycleThroughPages(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	e.user("librarian", true)
	member := e.login("reader")
	staff := e.login("librarian")
	book := e.book("9780000000007")

	resp := e.postForm(idPath("/book/:id/borrow_request", book.ID), url.Values{}, member)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, idPath("/book/:id", book.ID), resp.Header.Get(fiber.HeaderLocation))

	// a second pending request is silently ignored
	resp = e.postForm(idPath("/book/:id/borrow_request", book.ID), url.Values{}, member)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var reqs []borrowModel.BorrowRequestModel
	require.NoError(t, e.svc.DB.Find(&reqs).Error)
	require.Len(t, reqs, 1)
	id := reqs[0].ID

	// members cannot approve
	assert.Equal(t, fiber.StatusForbidden, e.postForm(idPath("/borrow_request/:id/approve", id), url.Values{}, member).StatusCode)

	resp = e.postForm(idPath("/borrow_request/:id/approve", id), url.Values{}, staff)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/borrow_requests", resp.Header.Get(fiber.HeaderLocation))
	assert.False(t, e.reloadBook(book.ID).Available)

	resp = e.get("/borrow_requests", member)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Approved")

	require.Equal(t, fiber.StatusFound, e.postForm(idPath("/borrow_request/:id/collect", id), url.Values{}, member).StatusCode)
	got := e.reloadBook(book.ID)
	assert.False(t, got.Available)
	require.NotNil(t, got.BorrowerID)

	require.Equal(t, fiber.StatusFound, e.postForm(idPath("/borrow_request/:id/return", id), url.Values{}, member).StatusCode)
	got = e.reloadBook(book.ID)
	assert.True(t, got.Available)
	assert.Nil(t, got.BorrowerID)

	// approving a completed request changes nothing
	resp = e.postForm(idPath("/borrow_request/:id/approve", id), url.Values{}, staff)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	loaded, err := e.svc.Ledger.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, borrowModel.StatusComplete, loaded.Status)
}

func TestMembersSeeOnlyTheirRequests(t *testing.T) {
	e := newEnv(t)
	e.user("alice", false)
	e.user("bob", false)
	book1 := e.book("9780000000011")
	book2 := e.book("9780000000012")

	a, err := e.svc.Auth.Authenticate(context.Background(), "alice", testPassword)
	require.NoError(t, err)
	b, err := e.svc.Auth.Authenticate(context.Background(), "bob", testPassword)
	require.NoError(t, err)
	_, err = e.svc.Ledger.Create(context.Background(), book1.ID, a.ID)
	require.NoError(t, err)
	_, err = e.svc.Ledger.Create(context.Background(), book2.ID, b.ID)
	require.NoError(t, err)

	resp := e.get("/borrow_requests", e.login("alice"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, book1.Title)
	assert.NotContains(t, html, book2.Title)
}

func TestChangeStatusPage(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	e.user("librarian", true)
	staff := e.login("librarian")
	book := e.book("9780000000021")

	reader, err := e.svc.Auth.Authenticate(context.Background(), "reader", testPassword)
	require.NoError(t, err)
	req, err := e.svc.Ledger.Create(context.Background(), book.ID, reader.ID)
	require.NoError(t, err)

	resp := e.get(idPath("/borrow_request/:id/status", req.ID), staff)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `<option value="1" selected>Pending</option>`)

	resp = e.postForm(idPath("/borrow_request/:id/status", req.ID), url.Values{"status": {"9"}}, staff)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Select a valid choice.")

	resp = e.postForm(idPath("/borrow_request/:id/status", req.ID), url.Values{"status": {"3"}}, staff)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	got := e.reloadBook(book.ID)
	assert.False(t, got.Available)
	require.NotNil(t, got.BorrowerID)
	assert.Equal(t, reader.ID, *got.BorrowerID)
}

/* ===== Data API ===== */

func TestAPITokenLifecycle(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	e.book("9780000000031")

	token := e.token("reader")
	resp := e.api(fiber.MethodGet, "/api/books", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "9780000000031")

	resp = e.api(fiber.MethodGet, "/api/books/9999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = e.api(fiber.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.api(fiber.MethodGet, "/api/books", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = e.api(fiber.MethodPost, "/api/auth/token", "", map[string]string{"username": "reader", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIBorrowRequestsIsStaffOnly(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	e.user("librarian", true)

	resp := e.api(fiber.MethodGet, "/api/borrow-requests", e.token("reader"), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = e.api(fiber.MethodGet, "/api/borrow-requests", e.token("librarian"), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// data decodes the "data" member of a success envelope into out.
func data(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestAPIBookWrites(t *testing.T) {
	e := newEnv(t)
	e.user("librarian", true)
	token := e.token("librarian")
	ctx := context.Background()

	author := &catalogModel.AuthorModel{Name: "Octavia Butler"}
	require.NoError(t, e.svc.Catalog.CreateAuthor(ctx, author))
	genre := &catalogModel.GenreModel{Name: "Science Fiction"}
	require.NoError(t, e.svc.Catalog.CreateGenre(ctx, genre))

	resp := e.api(fiber.MethodPost, "/api/books", token, map[string]any{
		"title": "Kindred", "isbn": "9780807083697", "authors": []uint{author.ID}, "genres": []uint{genre.ID},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created catalogDto.BookResponse
	data(t, resp, &created)
	assert.True(t, created.Available)
	assert.Nil(t, created.Borrower)
	path := idPath("/api/books/:id", created.ID)

	tests := []struct {
		name   string
		method string
		body   any
		want   int
		check  func(t *testing.T, got catalogDto.BookResponse)
	}{
		{
			name: "patch title keeps relations", method: fiber.MethodPatch,
			body: map[string]any{"title": "Kindred (25th anniversary)"}, want: fiber.StatusOK,
			check: func(t *testing.T, got catalogDto.BookResponse) {
				assert.Equal(t, "Kindred (25th anniversary)", got.Title)
				assert.Equal(t, []uint{author.ID}, got.Authors)
				assert.Equal(t, []uint{genre.ID}, got.Genres)
			},
		},
		{
			name: "patch empty authors is rejected", method: fiber.MethodPatch,
			body: map[string]any{"authors": []uint{}}, want: fiber.StatusUnprocessableEntity,
		},
		{
			name: "put replaces every field", method: fiber.MethodPut,
			body: map[string]any{"title": "Kindred", "isbn": "9780807083697", "authors": []uint{author.ID}}, want: fiber.StatusOK,
			check: func(t *testing.T, got catalogDto.BookResponse) {
				assert.Equal(t, "Kindred", got.Title)
				assert.Empty(t, got.Genres)
				assert.Nil(t, got.PublishedDate)
			},
		},
		{
			name: "put without authors is rejected", method: fiber.MethodPut,
			body: map[string]any{"title": "Kindred", "isbn": "9780807083697"}, want: fiber.StatusUnprocessableEntity,
		},
		{
			name: "bad date is rejected", method: fiber.MethodPatch,
			body: map[string]any{"published_date": "1979/06/01"}, want: fiber.StatusUnprocessableEntity,
		},
		{
			name: "delete", method: fiber.MethodDelete, want: fiber.StatusOK,
		},
		{
			name: "gone after delete", method: fiber.MethodPatch,
			body: map[string]any{"title": "x"}, want: fiber.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.api(tt.method, path, token, tt.body)
			require.Equal(t, tt.want, resp.StatusCode)
			if tt.check != nil {
				var got catalogDto.BookResponse
				data(t, resp, &got)
				tt.check(t, got)
			}
		})
	}
}

func TestAPIBorrowRequestWrites(t *testing.T) {
	e := newEnv(t)
	e.user("reader", false)
	e.user("librarian", true)
	token := e.token("librarian")
	book := e.book("9780000000041")

	reader, err := e.svc.Auth.Authenticate(context.Background(), "reader", testPassword)
	require.NoError(t, err)

	resp := e.api(fiber.MethodPost, "/api/borrow-requests", token, map[string]any{"book": book.ID, "borrower": reader.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created borrowDto.BorrowRequestResponse
	data(t, resp, &created)
	assert.Equal(t, int(borrowModel.StatusPending), created.Status)
	assert.NotEmpty(t, created.RequestDate)
	assert.True(t, e.reloadBook(book.ID).Available)
	path := idPath("/api/borrow-requests/:id", created.ID)

	tests := []struct {
		name          string
		method        string
		body          any
		want          int
		wantAvailable bool
		check         func(t *testing.T, resp *http.Response)
	}{
		{
			name: "patch approves and takes the book", method: fiber.MethodPatch,
			body: map[string]any{"status": 2}, want: fiber.StatusOK, wantAvailable: false,
		},
		{
			name: "put with dates", method: fiber.MethodPut,
			body: map[string]any{
				"book": book.ID, "borrower": reader.ID, "status": 3,
				"approval_date": "2026-03-01", "due_date": "2026-03-15",
			},
			want: fiber.StatusOK, wantAvailable: false,
			check: func(t *testing.T, resp *http.Response) {
				var got borrowDto.BorrowRequestResponse
				data(t, resp, &got)
				require.NotNil(t, got.DueDate)
				assert.Equal(t, "2026-03-15", *got.DueDate)
				assert.Equal(t, created.RequestDate, got.RequestDate)
			},
		},
		{
			name: "put without dates clears them", method: fiber.MethodPut,
			body: map[string]any{"book": book.ID, "borrower": reader.ID, "status": 2},
			want: fiber.StatusOK, wantAvailable: false,
			check: func(t *testing.T, resp *http.Response) {
				var got borrowDto.BorrowRequestResponse
				data(t, resp, &got)
				assert.Nil(t, got.ApprovalDate)
				assert.Nil(t, got.DueDate)
				assert.Nil(t, got.CompleteDate)
				assert.False(t, got.Overdue)
			},
		},
		{
			name: "status out of range", method: fiber.MethodPatch,
			body: map[string]any{"status": 9}, want: fiber.StatusUnprocessableEntity, wantAvailable: false,
			check: func(t *testing.T, resp *http.Response) {
				assert.Contains(t, body(t, resp), "Ensure this value is less than or equal to 5.")
			},
		},
		{
			name: "put without book", method: fiber.MethodPut,
			body: map[string]any{"borrower": reader.ID, "status": 4}, want: fiber.StatusUnprocessableEntity, wantAvailable: false,
		},
		{
			name: "delete frees the book", method: fiber.MethodDelete,
			want: fiber.StatusOK, wantAvailable: true,
		},
		{
			name: "gone after delete", method: fiber.MethodPatch,
			body: map[string]any{"status": 4}, want: fiber.StatusNotFound, wantAvailable: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.api(tt.method, path, token, tt.body)
			require.Equal(t, tt.want, resp.StatusCode)
			if tt.check != nil {
				tt.check(t, resp)
			}
			got := e.reloadBook(book.ID)
			assert.Equal(t, tt.wantAvailable, got.Available)
			if tt.wantAvailable {
				assert.Nil(t, got.BorrowerID)
			} else {
				require.NotNil(t, got.BorrowerID)
				assert.Equal(t, reader.ID, *got.BorrowerID)
			}
		})
	}
}
