package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink/internal/models/db_models"
	"carelink/internal/models/request_models"
	"carelink/internal/models/response_models"
	"carelink/internal/services"
	"carelink/pkg/utils"
)

type DelegationController struct {
	delegationService services.DelegationServiceInterface
}

func NewDelegationController(delegationService services.DelegationServiceInterface) *DelegationController {
	return &DelegationController{
		delegationService: delegationService,
	}
}

func linkResponse(link *db_models.FamilyLink, alreadyExisted bool) response_models.FamilyLinkResponse {
	return response_models.FamilyLinkResponse{
		ID:             link.ID,
		GrantorID:      link.GrantorID,
		GranteeID:      link.GranteeID,
		RelationType:   link.RelationType,
		Permission:     link.Permission,
		AlreadyExisted: alreadyExisted,
	}
}

// AddFamilyMember godoc
// @Summary Grant a family member access to my records
// @Description Creates a delegation link; repeating the same pair is a no-op
// @Tags Family
// @Accept json
// @Produce json
// @Param request body request_models.FamilyLinkRequest true "Family link payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /family/members [post]
func (d *DelegationController) AddFamilyMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.FamilyLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	granteeID, err := uuid.Parse(req.GranteeID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid family member id")
		return
	}

	link, created, err := d.delegationService.CreateLink(c.Request.Context(), userID, granteeID, req.RelationType, req.Permission)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Family member linked successfully"
	if !created {
		message = "Family member was already linked"
	}
	utils.RespondSuccess(c, linkResponse(link, !created), message)
}

// ListMyFamilyMembers godoc
// @Summary List accounts I have granted access to
// @Tags Family
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /family/members [get]
func (d *DelegationController) ListMyFamilyMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	links, err := d.delegationService.ListMyGrants(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result := make([]response_models.FamilyLinkResponse, 0, len(links))
	for i := range links {
		result = append(result, linkResponse(&links[i], false))
	}
	utils.RespondSuccess(c, result, "Family members fetched successfully")
}

// ListAccessGrantedToMe godoc
// @Summary List accounts whose records I can access
// @Tags Family
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /family/granted-to-me [get]
func (d *DelegationController) ListAccessGrantedToMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	links, err := d.delegationService.ListGrantedToMe(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result := make([]response_models.FamilyLinkResponse, 0, len(links))
	for i := range links {
		result = append(result, linkResponse(&links[i], false))
	}
	utils.RespondSuccess(c, result, "Delegations fetched successfully")
}

// RemoveFamilyMember godoc
// @Summary Revoke a family member's access
// @Tags Family
// @Produce json
// @Param family_member_id path string true "Family member account id"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /family/members/{family_member_id} [delete]
func (d *DelegationController) RemoveFamilyMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	granteeID, err := uuid.Parse(c.Param("family_member_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid family member id")
		return
	}

	if err := d.delegationService.RemoveLink(c.Request.Context(), userID, granteeID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Family member unlinked successfully")
}

// AssignCaregiver godoc
// @Summary Assign a caregiver to a patient
// @Description Primary account holders only
// @Tags Caregivers
// @Accept json
// @Produce json
// @Param request body request_models.CaregiverAssignmentRequest true "Caregiver assignment payload"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /caregivers/assign [post]
func (d *DelegationController) AssignCaregiver(c *gin.Context) {
	var req request_models.CaregiverAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	assignment, err := d.delegationService.AssignCaregiver(c.Request.Context(), currentRole(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var tasks []string
	if len(assignment.Tasks) > 0 {
		_ = json.Unmarshal(assignment.Tasks, &tasks)
	}
	utils.RespondSuccess(c, response_models.CaregiverAssignmentResponse{
		ID:          assignment.ID,
		CaregiverID: assignment.CaregiverID,
		PatientID:   assignment.PatientID,
		Tasks:       tasks,
		Message:     "Caregiver assigned",
	}, "Caregiver assigned successfully")
}

// ListPatientAssignments godoc
// @Summary List a patient's caregiver assignments
// @Description The caller must be the patient or hold a delegation from them
// @Tags Caregivers
// @Produce json
// @Param patient_id path string true "Patient account id"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /caregivers/patients/{patient_id}/assignments [get]
func (d *DelegationController) ListPatientAssignments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid patient id")
		return
	}

	assignments, err := d.delegationService.ListPatientAssignments(c.Request.Context(), userID, patientID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result := make([]response_models.CaregiverAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		var tasks []string
		if len(assignments[i].Tasks) > 0 {
			_ = json.Unmarshal(assignments[i].Tasks, &tasks)
		}
		result = append(result, response_models.CaregiverAssignmentResponse{
			ID:          assignments[i].ID,
			CaregiverID: assignments[i].CaregiverID,
			PatientID:   assignments[i].PatientID,
			Tasks:       tasks,
		})
	}
	utils.RespondSuccess(c, result, "Assignments fetched successfully")
}

// GetCaregiverProfile godoc
// @Summary Get a caregiver's profile
// @Tags Caregivers
// @Produce json
// @Param account_id path string true "Caregiver account id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /caregivers/{account_id}/profile [get]
func (d *DelegationController) GetCaregiverProfile(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	profile, err := d.delegationService.GetCaregiverProfile(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CaregiverProfileResponse{
		AccountID: profile.AccountID,
		Name:      profile.Name,
		Phone:     profile.Phone,
	}, "Caregiver profile fetched successfully")
}
