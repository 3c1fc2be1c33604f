// Package handler 按业务域划分 HTTP 处理器：auth 登录与令牌，hotel 房间、客人与预订，admin 员工与看板。
//
// 本文件使 swag init --dir ./internal/handler 能把该目录识别为 Go 包。
package handler
