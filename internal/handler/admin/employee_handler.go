// Package admin 提供管理员专属的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/handler"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	adminService "github.com/dumeirei/hotel-frontdesk/internal/service/admin"
)

// EmployeeHandler 员工管理处理器
type EmployeeHandler struct {
	employeeService *adminService.EmployeeService
}

// NewEmployeeHandler 创建员工管理处理器
func NewEmployeeHandler(employeeSvc *adminService.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeSvc,
	}
}

// List 获取员工列表
// @Summary 获取员工列表
// @Tags 员工管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param username query string false "用户名"
// @Param name query string false "姓名"
// @Param privilege query string false "权限 Administrador/Empleado"
// @Success 200 {object} response.Response{data=response.PageData{list=[]authService.EmployeeInfo}}
// @Router /api/v1/admin/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	for _, key := range []string{"username", "name", "privilege"} {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}

	list, total, err := h.employeeService.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, list, total, p)
}

// Get 获取员工详情
// @Summary 获取员工详情
// @Tags 员工管理
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Success 200 {object} response.Response{data=authService.EmployeeInfo}
// @Router /api/v1/admin/employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	employee, err := h.employeeService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, employee)
}

// Create 创建员工
// @Summary 创建员工
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateEmployeeRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.EmployeeInfo}
// @Router /api/v1/admin/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req adminService.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "员工已创建", employee)
}

// Update 更新员工
// @Summary 更新员工
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Param request body adminService.UpdateEmployeeRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.EmployeeInfo}
// @Router /api/v1/admin/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	var req adminService.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, employee)
}

// ResetPassword 重置员工密码
// @Summary 重置员工密码
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Param request body adminService.ResetPasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/employees/{id}/password [put]
func (h *EmployeeHandler) ResetPassword(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	var req adminService.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.employeeService.ResetPassword(c.Request.Context(), id, req.Password)
	handler.MustSucceedWithMessage(c, err, "密码已重置", nil)
}

// Delete 删除员工
// @Summary 删除员工
// @Tags 员工管理
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	operatorID, id, ok := handler.RequireEmployeeAndParseID(c, "员工")
	if !ok {
		return
	}

	err := h.employeeService.Delete(c.Request.Context(), operatorID, id)
	handler.MustSucceedWithMessage(c, err, "员工已删除", nil)
}
