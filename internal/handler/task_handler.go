package handler

import (
	"taskmgr-go/internal/core"
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/service"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks 按条件查询任务
// @Summary 查询任务
// @Tags 任务
// @Produce json
// @Param category query int false "分类"
// @Param status query int false "状态 0/1/2"
// @Param completed query bool false "仅已完成"
// @Param overdue query bool false "仅已逾期"
// @Param upcoming query int false "未来N天内到期"
// @Success 200 {object} utils.ListResponse{data=[]dto.TaskResponse}
// @Router /api/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var query dto.TaskQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequest(c, "validation_failed", "查询参数错误: "+err.Error())
		return
	}

	tasks, err := h.taskService.List(actor, core.TaskFilter{
		Category:           query.Category,
		Status:             query.Status,
		Completed:          query.Completed,
		Overdue:            query.Overdue,
		UpcomingWithinDays: query.Upcoming,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListSuccess(c, len(tasks), tasks)
}

// GetStats 任务统计
// @Summary 任务统计
// @Tags 任务
// @Produce json
// @Success 200 {object} utils.Response{data=core.Stats}
// @Router /api/tasks/stats [get]
func (h *TaskHandler) GetStats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	stats, err := h.taskService.Stats(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GetTask 获取任务详情
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, task)
}

// CreateTask 创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param request body dto.TaskRequest true "任务信息"
// @Success 201 {object} utils.Response{data=dto.TaskResponse}
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	task, err := h.taskService.Create(actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, task)
}

// UpdateTask 编辑任务
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	task, err := h.taskService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "任务已更新", task)
}

// DeleteTask 删除任务及其附件
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "任务已删除", gin.H{"success": true})
}
