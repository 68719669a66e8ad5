package filesystem

type (
	Reader interface {
		ReadJSON(path string, target any) error
		ReadBytes(path string) ([]byte, error)
		ListFiles(dir, ext string) ([]string, error)
	}
	Writer interface {
		WriteJSON(path string, data any) error
		WriteBytes(path string, data []byte) error
	}
)
