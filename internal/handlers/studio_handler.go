package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/joshua-takyi/vena/internal/services"
)

func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		view, err := u.GetProfile(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to get profile")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(view, ""))
	}
}

func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		view, err := u.UpdateProfile(c.Request.Context(), vendorID, fields, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to update profile")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(view, "Profile updated successfully"))
	}
}

func CreateClient(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		var client models.Client
		if err := c.ShouldBindJSON(&client); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		created, err := s.CreateClient(c.Request.Context(), vendorID, &client, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to create client")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Client created successfully"))
	}
}

func ListClients(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		clients, err := s.ListClients(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list clients")
			return
		}
		paginated(c, clients)
	}
}

func UpdateClient(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		updated, err := s.UpdateClient(c.Request.Context(), id, vendorID, fields, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to update client")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "Client updated successfully"))
	}
}

func DeleteClient(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteClient(c.Request.Context(), id, vendorID, claims.AccessToken); err != nil {
			respondError(c, err, "failed to delete client")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Client deleted successfully"))
	}
}

func CreatePackage(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		var pkg models.Package
		if err := c.ShouldBindJSON(&pkg); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		created, err := s.CreatePackage(c.Request.Context(), vendorID, &pkg, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to create package")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Package created successfully"))
	}
}

func ListPackages(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		packages, err := s.ListPackages(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list packages")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(packages, ""))
	}
}

func UpdatePackage(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		updated, err := s.UpdatePackage(c.Request.Context(), id, vendorID, fields, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to update package")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "Package updated successfully"))
	}
}

func DeletePackage(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeletePackage(c.Request.Context(), id, vendorID, claims.AccessToken); err != nil {
			respondError(c, err, "failed to delete package")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Package deleted successfully"))
	}
}

func CreateAddOn(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		var addOn models.AddOn
		if err := c.ShouldBindJSON(&addOn); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		created, err := s.CreateAddOn(c.Request.Context(), vendorID, &addOn, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to create add-on")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Add-on created successfully"))
	}
}

func ListAddOns(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		addOns, err := s.ListAddOns(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list add-ons")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(addOns, ""))
	}
}

func DeleteAddOn(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteAddOn(c.Request.Context(), id, vendorID, claims.AccessToken); err != nil {
			respondError(c, err, "failed to delete add-on")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Add-on deleted successfully"))
	}
}

func ListProjects(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		projects, err := s.ListProjects(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list projects")
			return
		}
		paginated(c, projects)
	}
}

func UpdateProject(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		updated, err := s.UpdateProject(c.Request.Context(), id, vendorID, fields, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to update project")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "Project updated successfully"))
	}
}

func DeleteProject(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteProject(c.Request.Context(), id, vendorID, claims.AccessToken); err != nil {
			respondError(c, err, "failed to delete project")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Project deleted successfully"))
	}
}

func CreateTransaction(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		var tx models.Transaction
		if err := c.ShouldBindJSON(&tx); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		created, err := s.CreateTransaction(c.Request.Context(), vendorID, &tx, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to create transaction")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Transaction created successfully"))
	}
}

func ListTransactions(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		txs, err := s.ListTransactions(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list transactions")
			return
		}
		paginated(c, txs)
	}
}

func CreatePromoCode(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		var promo models.PromoCode
		if err := c.ShouldBindJSON(&promo); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		created, err := s.CreatePromoCode(c.Request.Context(), vendorID, &promo, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to create promo code")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Promo code created successfully"))
	}
}

func ListPromoCodes(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		promos, err := s.ListPromoCodes(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list promo codes")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(promos, ""))
	}
}

func DeletePromoCode(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeletePromoCode(c.Request.Context(), id, vendorID, claims.AccessToken); err != nil {
			respondError(c, err, "failed to delete promo code")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Promo code deleted successfully"))
	}
}
