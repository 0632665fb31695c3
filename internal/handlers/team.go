package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type TeamHandler struct {
	teams       *services.TeamService
	members     *services.MembershipService
	invitations *services.InvitationService
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{
		teams:       services.NewTeamService(db),
		members:     services.NewMembershipService(db),
		invitations: services.NewInvitationService(db),
	}
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req services.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teams.Create(&req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, team)
}

func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.teams.GetByID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, team)
}

func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teams.ListForUser(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, teams)
}

func (h *TeamHandler) Update(c *gin.Context) {
	var req services.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teams.Update(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, team)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teams.Delete(c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "team deleted"})
}

// --- membership ---

func (h *TeamHandler) AddMember(c *gin.Context) {
	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.members.Add(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, member)
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.members.List(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, members)
}

func (h *TeamHandler) UpdateMember(c *gin.Context) {
	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.members.Update(c.Param("id"), c.Param("memberId"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, member)
}

// --- invitations ---

func (h *TeamHandler) CreateInvitation(c *gin.Context) {
	var req services.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invitation, err := h.invitations.Create(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, invitation)
}

func (h *TeamHandler) ListInvitations(c *gin.Context) {
	invitations, err := h.invitations.ListForTeam(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, invitations)
}

func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.invitations.Accept(req.Token, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, member)
}

func (h *TeamHandler) RevokeInvitation(c *gin.Context) {
	if err := h.invitations.Revoke(c.Param("invitationId"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "invitation revoked"})
}
