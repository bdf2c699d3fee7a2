package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds PostgREST filter parameters
type Query struct {
	values url.Values
}

// NewQuery creates an empty filter query
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Select restricts the returned columns
func (q *Query) Select(columns ...string) *Query {
	q.values.Set("select", strings.Join(columns, ","))
	return q
}

// Eq matches rows where column equals value
func (q *Query) Eq(column, value string) *Query {
	q.values.Add(column, "eq."+value)
	return q
}

// Ilike matches rows where column matches pattern case-insensitively.
// Use * as the wildcard.
func (q *Query) Ilike(column, pattern string) *Query {
	q.values.Add(column, "ilike."+pattern)
	return q
}

// Contains matches rows whose array column contains every value
func (q *Query) Contains(column string, values ...string) *Query {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteValue(v)
	}
	q.values.Add(column, "cs.{"+strings.Join(quoted, ",")+"}")
	return q
}

// Or matches rows satisfying any of the given conditions
func (q *Query) Or(conditions ...Condition) *Query {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.String()
	}
	q.values.Add("or", "("+strings.Join(parts, ",")+")")
	return q
}

// Order sorts by column
func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.values.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of returned rows
func (q *Query) Limit(n int) *Query {
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

// Values returns the encoded filter parameters
func (q *Query) Values() url.Values {
	if q == nil {
		return url.Values{}
	}
	return q.values
}

// Condition is one operand of an or=(...) filter
type Condition struct {
	Column   string
	Operator string
	Value    string
}

// IlikeCondition matches column against pattern case-insensitively
func IlikeCondition(column, pattern string) Condition {
	return Condition{Column: column, Operator: "ilike", Value: pattern}
}

func (c Condition) String() string {
	return c.Column + "." + c.Operator + "." + quoteValue(c.Value)
}

// quoteValue double-quotes values containing PostgREST reserved characters
func quoteValue(v string) string {
	if !strings.ContainsAny(v, `,.:(){}" \`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

func tablePath(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}

// Select reads rows of table matching q using the service key
func (c *Client) Select(ctx context.Context, table string, q *Query) (*Response, error) {
	req := c.request(ctx, ServiceKey).
		SetHeader("Accept", "application/json").
		SetQueryParamsFromValues(q.Values())
	return c.execute("Select", req, http.MethodGet, tablePath(table))
}

// Insert creates row in table and returns the stored representation
func (c *Client) Insert(ctx context.Context, table string, row interface{}) (*Response, error) {
	if row == nil {
		return nil, fmt.Errorf("insert into %s: row is required", table)
	}
	req := c.request(ctx, ServiceKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(row)
	return c.execute("Insert", req, http.MethodPost, tablePath(table))
}

// Update patches rows of table matching q and returns their new representation
func (c *Client) Update(ctx context.Context, table string, q *Query, patch interface{}) (*Response, error) {
	if len(q.Values()) == 0 {
		return nil, fmt.Errorf("update %s: refusing to patch without a filter", table)
	}
	req := c.request(ctx, ServiceKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetQueryParamsFromValues(q.Values()).
		SetBody(patch)
	return c.execute("Update", req, http.MethodPatch, tablePath(table))
}
