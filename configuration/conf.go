/*
Package configuration - содержит основные средства для чтения конфигурации шлюза.
Конфигурация хранится в YAML файле и загружается в глобальную структуру Config
*/
package configuration

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// ConfigFile - структура описывающая конфигурационный файл
type ConfigFile struct {
	ServerTCPPort       string `yaml:"ServerTCPPort"`       // TCP адресс для приема соединений
	ServerTLSPort       string `yaml:"ServerTLSPort"`       // TLS адресс. Для него обязательны CertificatePath и PrivateKeyPath
	CertificatePath     string `yaml:"CertificatePath"`     // Путь к сертификату для TLS сессии
	PrivateKeyPath      string `yaml:"PrivateKeyPath"`      // Путь к приватному ключу для сертиификата
	HTTPAdminPort       string `yaml:"HTTPAdminPort"`       // Адрес HTTP API статистики. Пусто - API отключен
	MaxConnectionFromIP uint32 `yaml:"MaxConnectionFromIP"` // 0 - без ограничений
	OldIPAddrTimeout    uint32 `yaml:"OldIPAddrTimeout"`    // В минутах, после этого счетчик подключений с IP сбрасывается
	SessionStore        string `yaml:"SessionStore"`        // Путь к bbolt базе истории сессий. Пусто - история не сохраняется
	LogPath             string `yaml:"LogPath"`             // Путь куда сохранять логи
	SaveDuration        uint32 `yaml:"SaveDuration"`        // Промежуток времени в минутах для смены файла логов
}

// Config - глобальная структура со всеми конфигурациями сервера
var Config = Default()

// Default - значения по умолчанию
func Default() ConfigFile {
	return ConfigFile{
		ServerTCPPort:    "127.0.0.1:25333",
		OldIPAddrTimeout: 12 * 60,
		SaveDuration:     24 * 60,
	}
}

// Parse - разбирает YAML поверх значений по умолчанию
func Parse(data []byte) (ConfigFile, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("can not parse configuration: %w", err)
	}
	if c.ServerTLSPort != "" && (c.CertificatePath == "" || c.PrivateKeyPath == "") {
		return c, fmt.Errorf("ServerTLSPort %s requires CertificatePath and PrivateKeyPath", c.ServerTLSPort)
	}
	return c, nil
}

// ReadConfig - читает файл конфигурации в Config
func ReadConfig(filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}
	c, err := Parse(data)
	if err != nil {
		return err
	}
	Config = c
	return nil
}

// ShowAllConfigStore - выводит текущую конфигурацию
func ShowAllConfigStore(w io.Writer) {
	data, err := yaml.Marshal(Config)
	if err != nil {
		fmt.Fprintln(w, err.Error())
		return
	}
	w.Write(data)
}
