package repository

import (
	"strings"

	"correlation-service/internal/ffdc"
)

// AccessPolicy decides which users may call the repository. The zero value
// allows everyone.
type AccessPolicy struct {
	allowed map[string]struct{}
}

// NewAllowList returns a policy admitting only the listed users. Blank
// entries are ignored; an empty list admits everyone.
func NewAllowList(users []string) AccessPolicy {
	p := AccessPolicy{}
	for _, u := range users {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if p.allowed == nil {
			p.allowed = make(map[string]struct{})
		}
		p.allowed[u] = struct{}{}
	}
	return p
}

// Check returns a user-not-authorized error when userID may not perform
// action.
func (p AccessPolicy) Check(userID, action string) error {
	if p.allowed == nil {
		return nil
	}
	if _, ok := p.allowed[userID]; ok {
		return nil
	}
	return ffdc.NewUserNotAuthorized(ffdc.UserNotAuthorized, action, userID, action).
		WithParameter("userId", userID)
}
