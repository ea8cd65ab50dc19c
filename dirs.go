package sharedlog

import (
	"os"

	"github.com/Station-Manager/errors"
)

// mkdirAll is swapped out by tests that count directory creation.
var mkdirAll = os.MkdirAll

// ensureDirs creates each directory, parents included, unless it already exists.
func ensureDirs(dirs ...string) error {
	const op errors.Op = "sharedlog.ensureDirs"
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			continue
		}
		if err := mkdirAll(dir, os.ModePerm); err != nil {
			return errors.New(op).Err(err).Msg(errMsgCreateDir)
		}
	}
	return nil
}
