package core

import "taskmgr-go/internal/models"

// CanView 管理员或任务归属人可见
func CanView(actor Actor, task *models.Task) bool {
	return actor.IsAdmin() || task.OwnerUserID == actor.ID
}

// CanMutate 编辑、删除、上传附件与查看使用同一规则
func CanMutate(actor Actor, task *models.Task) bool {
	return CanView(actor, task)
}

// ResolveOwnerOnCreate 只有管理员可以在创建时指定归属人
func ResolveOwnerOnCreate(actor Actor, requestedOwnerID *uint) uint {
	if actor.IsAdmin() && requestedOwnerID != nil {
		return *requestedOwnerID
	}
	return actor.ID
}

// ResolveOwnerOnEdit 非管理员传入的归属人被忽略
func ResolveOwnerOnEdit(actor Actor, task *models.Task, requestedOwnerID *uint) uint {
	if actor.IsAdmin() && requestedOwnerID != nil {
		return *requestedOwnerID
	}
	return task.OwnerUserID
}

// Authorize 先判断任务是否存在，再判断权限。
// task 为 nil 表示存储中没有该记录。
func Authorize(actor Actor, task *models.Task, allowed func(Actor, *models.Task) bool) error {
	if task == nil {
		return ErrNotFound
	}
	if !allowed(actor, task) {
		return ErrUnauthorized
	}
	return nil
}
