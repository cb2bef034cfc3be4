package forcecrc32

import (
	"path/filepath"
	"strings"

	"github.com/vchimishuk/chub/cue"
)

const cueExt = ".cue"

func firstDataTrack(sheet *cue.Sheet) (string, error) {
	for _, file := range sheet.Files {
		for _, track := range file.Tracks {
			switch track.DataType {
			case cue.DataTypeMode1_2048, cue.DataTypeMode1_2352:
				return file.Name, nil
			}
		}
	}
	return "", ErrNoDataTrack
}

// ResolveCue returns name unchanged unless it is a cue sheet, in which
// case it returns the path of the file holding its first data track.
func ResolveCue(name string) (string, error) {
	if !strings.EqualFold(filepath.Ext(name), cueExt) {
		return name, nil
	}

	sheet, err := cue.ParseFile(name)
	if err != nil {
		return "", err
	}

	file, err := firstDataTrack(sheet)
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(name), file), nil
}
