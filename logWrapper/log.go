package logWrapper

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/logger"
)

const loggerName = "rpcGateway"

//LogFileType - обертка над логером с функцией изменеия файла сохранения
type LogFileType struct {
	file       *os.File
	logWrapper *logger.Logger
	mtx        sync.RWMutex
}

var log LogFileType

func init() {
	log.logWrapper = logger.Init(loggerName, true, false, os.Stdout)
}

//GetLogger - вернет дефолтный логгер
func GetLogger() *LogFileType {
	return &log
}

// SetOutput - перенаправляет все записи в w (используется в тестах и при старте без файла логов)
func (l *LogFileType) SetOutput(w io.Writer) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.logWrapper = logger.Init(loggerName, false, false, w)
}

// swapFile - регистрирует новый файл и закрывает предыдущий
func (l *LogFileType) swapFile(f *os.File) {
	l.mtx.Lock()
	old := l.file
	l.file = f
	l.logWrapper = logger.Init(loggerName, false, false, f)
	l.mtx.Unlock()
	if old != nil {
		if err := old.Close(); err != nil {
			Warningf("Error when try close log file %s: %v", old.Name(), err)
		}
	}
}

func (l *LogFileType) closeFile() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	l.logWrapper = logger.Init(loggerName, true, false, os.Stdout)
}

// ChangeFile - Запускает периодическое изменение имени файла куда сохраняются логи.
// Blocks until stop is closed.
func (l *LogFileType) ChangeFile(dirPath string, dT time.Duration, stop <-chan struct{}) {
	defer l.closeFile()
	for {
		logFilePath := filepath.Join(dirPath, "log "+time.Now().Format("2006-01-02")+".txt")
		logFile, err := os.OpenFile(logFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			Errorf("Error when try open a file for loging %s, %s", logFilePath, err.Error())
			return
		}
		l.swapFile(logFile)
		select {
		case <-stop:
			return
		case <-time.After(dT):
		}
	}
}

func current() *logger.Logger {
	log.mtx.RLock()
	defer log.mtx.RUnlock()
	return log.logWrapper
}

/*
Реализация стандартных функций логера
*/

func SetFlags(flags int) {
	logger.SetFlags(flags)
}

func Debug(v ...interface{}) {
	current().InfoDepth(1, v...)
}

func Debugf(format string, v ...interface{}) {
	current().InfoDepth(1, fmt.Sprintf(format, v...))
}

func Trace(v ...interface{}) {
	current().InfoDepth(1, v...)
}

func Tracef(format string, v ...interface{}) {
	current().InfoDepth(1, fmt.Sprintf(format, v...))
}

// Info uses the default logger and logs with the Info severity.
// Arguments are handled in the manner of fmt.Print.
func Info(v ...interface{}) {
	current().InfoDepth(1, v...)
}

// Infof uses the default logger and logs with the Info severity.
// Arguments are handled in the manner of fmt.Printf.
func Infof(format string, v ...interface{}) {
	current().InfoDepth(1, fmt.Sprintf(format, v...))
}

// Warning uses the default logger and logs with the Warning severity.
func Warning(v ...interface{}) {
	current().WarningDepth(1, v...)
}

// Warningf uses the default logger and logs with the Warning severity.
// Arguments are handled in the manner of fmt.Printf.
func Warningf(format string, v ...interface{}) {
	current().WarningDepth(1, fmt.Sprintf(format, v...))
}

// Error uses the default logger and logs with the Error severity.
func Error(v ...interface{}) {
	current().ErrorDepth(1, v...)
}

// Errorf uses the default logger and logs with the Error severity.
// Arguments are handled in the manner of fmt.Printf.
func Errorf(format string, v ...interface{}) {
	current().ErrorDepth(1, fmt.Sprintf(format, v...))
}

// Fatal logs with the Fatal severity and ends with os.Exit(1).
func Fatal(v ...interface{}) {
	current().FatalDepth(1, v...)
}

// Fatalf logs with the Fatal severity and ends with os.Exit(1).
func Fatalf(format string, v ...interface{}) {
	current().FatalDepth(1, fmt.Sprintf(format, v...))
}
