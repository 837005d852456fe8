package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// Presenters implement the output ports for a single request. The use case
// calls Present at most once; the handler writes the error response when
// the use case fails, so a presenter never sees an error from it.

// customerPresenter resolves the country code for the response, which the
// context row only carries as an id.
type customerPresenter struct {
	c         *gin.Context
	countries ports.CountryGateway
}

var _ ports.CustomerOutputPort = (*customerPresenter)(nil)

func (p *customerPresenter) Present(customer *domain.Customer, row *domain.Context, created bool) {
	if row == nil {
		row = &customer.Context
	}

	country, err := p.countries.FindByID(p.c.Request.Context(), row.CountryID)
	if err != nil {
		dto.HandleError(p.c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	p.c.JSON(status, dto.CustomerResponse{
		IDContext:          customer.ID(),
		Name:               row.Name,
		OrganizationNumber: row.OrganizationNumber,
		CountryCode:        country.Code,
		IDContextParent:    row.ParentContextID,
	})
}

func (p *customerPresenter) PresentDeleted() {
	p.c.Status(http.StatusNoContent)
}

type userPresenter struct {
	c *gin.Context
}

var _ ports.UserOutputPort = (*userPresenter)(nil)

func (p *userPresenter) Present(out ports.UserOutput) {
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}

	p.c.JSON(status, dto.UserResponse{
		UserID:       out.UserID,
		Email:        out.Email,
		FirstName:    out.FirstName,
		LastName:     out.LastName,
		LanguageCode: out.LanguageCode,
	})
}

type rolePresenter struct {
	c *gin.Context
}

var _ ports.RoleOutputPort = (*rolePresenter)(nil)

func (p *rolePresenter) Present(out ports.RoleOutput) {
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}

	p.c.JSON(status, dto.RoleResponse{
		RoleID:       out.RoleID,
		Name:         out.Name,
		InvariantKey: out.InvariantKey,
		Description:  out.Description,
	})
}
