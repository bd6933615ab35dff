package h5

import (
	hdf5 "github.com/jmbenlloch/go-hdf5"
)

const STRLEN = 256

var unlimitedDims = -1 // H5S_UNLIMITED is -1L

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func openFile(fname string) (*hdf5.File, error) {
	return hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

// createEventArray creates an extendible float32 dataset with one entry of
// the given shape per event.
func createEventArray(group *hdf5.Group, name string, shape []uint, compression int) (*hdf5.Dataset, error) {
	dims := make([]uint, len(shape)+1)
	maxDims := append([]uint{uint(unlimitedDims)}, shape...)
	chunks := append([]uint{1}, shape...)
	return createArray(group, name, hdf5.T_NATIVE_FLOAT, dims, maxDims, chunks, compression)
}

func createArray(group *hdf5.Group, name string, dtype *hdf5.Datatype,
	dims []uint, maxDims []uint, chunks []uint, compression int) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	if err := plist.SetChunk(chunks); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	if compression > 0 {
		if err := plist.SetDeflate(compression); err != nil {
			return nil, &ErrCreateTable{TableName: name, Err: err}
		}
	}

	dataset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dataset, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compression int) (*hdf5.Dataset, error) {
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	dims := []uint{0}
	maxDims := []uint{uint(unlimitedDims)}
	chunks := []uint{32768}
	return createArray(group, name, dtype, dims, maxDims, chunks, compression)
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, evtCounter int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, evtCounter)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, evtCounter int) error {
	length := uint(len(*data))
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	// extend
	eventsInFile := uint(evtCounter)
	if err := dataset.Resize([]uint{eventsInFile + length}); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{eventsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}
	return dataset.WriteSubset(data, dataspace, filespace)
}

// appendEventArray writes one event of the given shape at position evtCounter.
func appendEventArray(dataset *hdf5.Dataset, data *[]float32, evtCounter int, shape []uint) error {
	newsize := append([]uint{uint(evtCounter) + 1}, shape...)
	if err := dataset.Resize(newsize); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := make([]uint, len(shape)+1)
	start[0] = uint(evtCounter)
	count := append([]uint{1}, shape...)
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}
