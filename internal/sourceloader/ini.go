package sourceloader

import ini "gopkg.in/ini.v1"

// decodeINI maps an INI document onto the tree shape spec §6 requires:
// sections become nested objects keyed by section name, and keys outside
// any section (ini.v1's DEFAULT section) hoist to the tree root.
func decodeINI(data []byte) (any, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	root := make(map[string]any)
	for _, section := range file.Sections() {
		keys := section.Keys()
		if len(keys) == 0 {
			continue
		}

		values := make(map[string]any, len(keys))
		for _, key := range keys {
			values[key.Name()] = key.Value()
		}

		if section.Name() == ini.DefaultSection {
			for k, v := range values {
				root[k] = v
			}

			continue
		}

		root[section.Name()] = values
	}

	return root, nil
}
