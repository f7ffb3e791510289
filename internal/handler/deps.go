package handler

import (
	"provchat/internal/app/chat"
	"provchat/internal/configs"
)

type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
}
