package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Shanilka-Yapa/Libricore/middleware"
	"github.com/Shanilka-Yapa/Libricore/services"
)

// MemberController handles member registration requests
type MemberController struct {
	memberService *services.MemberService
}

// NewMemberController creates a new MemberController instance
func NewMemberController(memberService *services.MemberService) *MemberController {
	return &MemberController{memberService: memberService}
}

// List handles listing all members
func (c *MemberController) List(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	members, err := c.memberService.List(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// Create handles registering a new member
func (c *MemberController) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	member, err := c.memberService.Create(caller.UserID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Member added successfully!",
		"member":  member,
	})
}
