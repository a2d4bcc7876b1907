/*
Package command - контракт обработчика команды шлюза и реестр обработчиков соединения.

Обработчик получает строку с именем команды, уже прочитанную циклом соединения,
и на время одного вызова Execute единолично владеет потоками чтения и записи соединения:
он сам дочитывает запрос и пишет полный ответ (включая Flush).
Параллельных вызовов Execute в рамках одного соединения не бывает.
*/
package command

import (
	"bufio"

	"github.com/blabu/egeonRpcGateway/gateway"
)

// Command - обработчик одной команды
type Command interface {
	// Init - однократная настройка при построении реестра соединения
	Init(gw *gateway.Gateway) error
	// Name - имя команды, ключ в реестре
	Name() string
	// Execute - дочитывает запрос из r и пишет ответ в w.
	// Ошибка завершает соединение
	Execute(line string, r *bufio.Reader, w *bufio.Writer) error
}

// Factory - создает новый экземпляр обработчика
type Factory func() Command
