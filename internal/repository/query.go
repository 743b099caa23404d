// Package repository serves HR domain reads through the query cache and
// keeps cached data honest on writes. Each repository decorates a Source,
// the upstream data API, with read-through caching and scoped invalidation.
package repository

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"

	"hdfhr-backend/internal/cache"
)

// DefaultPageSize bounds list reads when the caller does not pick a size.
const DefaultPageSize = 20

// Page selects a window of a list result. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Bounds converts the page to inclusive 0-based range offsets.
func (p Page) Bounds() (int, int) {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	number := p.Number
	if number <= 0 {
		number = 1
	}
	from := (number - 1) * size
	return from, from + size - 1
}

func (p Page) signature() []string {
	return []string{strconv.Itoa(p.Number), strconv.Itoa(p.Size)}
}

const (
	companyKeyspace  = "companies"
	employeeKeyspace = "employees"
	taskKeyspace     = "tasks"
	receiptKeyspace  = "receipts"
	activityKeyspace = "activity"

	scopeAll = "all"
)

// querySignature digests the ordered query parts into a short stable token
// so distinct filter combinations map to distinct cache keys.
func querySignature(parts ...string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func scopeOf(companyID string) string {
	if companyID == "" {
		return scopeAll
	}
	return companyID
}

// CompanyQuery filters the company list.
type CompanyQuery struct {
	Search     string
	ActiveOnly bool
	Page       Page
}

// CacheKey identifies the cache entry for this exact query.
func (q CompanyQuery) CacheKey() string {
	parts := append([]string{q.Search, strconv.FormatBool(q.ActiveOnly)}, q.Page.signature()...)
	return cache.Key(companyKeyspace, "list", querySignature(parts...))
}

// EmployeeQuery filters the employee list, optionally scoped to a company.
type EmployeeQuery struct {
	CompanyID  string
	ActiveOnly bool
	Page       Page
}

func (q EmployeeQuery) CacheKey() string {
	parts := append([]string{strconv.FormatBool(q.ActiveOnly)}, q.Page.signature()...)
	return cache.Key(employeeKeyspace, "list", scopeOf(q.CompanyID), querySignature(parts...))
}

// TaskQuery filters the task list by company, status and assignee.
type TaskQuery struct {
	CompanyID  string
	Status     string
	AssignedTo string
	Page       Page
}

func (q TaskQuery) CacheKey() string {
	parts := append([]string{q.Status, q.AssignedTo}, q.Page.signature()...)
	return cache.Key(taskKeyspace, "list", scopeOf(q.CompanyID), querySignature(parts...))
}

// ReceiptQuery filters the receipt list by company and category.
type ReceiptQuery struct {
	CompanyID string
	Category  string
	Page      Page
}

func (q ReceiptQuery) CacheKey() string {
	parts := append([]string{q.Category}, q.Page.signature()...)
	return cache.Key(receiptKeyspace, "list", scopeOf(q.CompanyID), querySignature(parts...))
}

// ActivityQuery filters the activity log by company and user.
type ActivityQuery struct {
	CompanyID string
	UserID    string
	Page      Page
}

func (q ActivityQuery) CacheKey() string {
	parts := append([]string{q.UserID}, q.Page.signature()...)
	return cache.Key(activityKeyspace, "list", scopeOf(q.CompanyID), querySignature(parts...))
}

func companyKey(id string) string  { return cache.Key(companyKeyspace, "detail", id) }
func employeeKey(id string) string { return cache.Key(employeeKeyspace, "detail", id) }
func taskKey(id string) string     { return cache.Key(taskKeyspace, "detail", id) }
func receiptKey(id string) string  { return cache.Key(receiptKeyspace, "detail", id) }
